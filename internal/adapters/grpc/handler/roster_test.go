package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/ogurasousui/employee-roster/internal/core/locale"
	"github.com/ogurasousui/employee-roster/internal/core/roster"
	"github.com/sirupsen/logrus/hooks/test"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type fixedIDs struct{ n int }

func (f *fixedIDs) NewID() string {
	f.n++
	return fmt.Sprintf("emp-%d", f.n)
}

type fixture struct {
	store   *roster.Store
	i18n    *locale.Broadcaster
	handler *RosterGrpcHandler
}

func newFixture(t *testing.T, n int) fixture {
	t.Helper()

	log, _ := test.NewNullLogger()
	store := roster.NewStore()
	list := make([]employee.Employee, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, employee.Employee{ID: fmt.Sprint(i), FirstName: fmt.Sprintf("First%d", i)})
	}
	store.Dispatch(roster.NewSetEmployees(list))

	loader := locale.LoaderFunc(func(_ context.Context, loc string) (locale.Table, error) {
		if loc == "tr" {
			return locale.Table{"firstName": "Ad"}, nil
		}
		return nil, locale.ErrNotFound
	})
	i18n := locale.New(loader, locale.WithLogger(log))

	svc := roster.NewService(store, &fixedIDs{})
	return fixture{
		store:   store,
		i18n:    i18n,
		handler: NewRosterGrpcHandler(svc, store, i18n, 10, log),
	}
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

func validEmployeeFields() map[string]any {
	return map[string]any{
		"firstName":        "Ahmet",
		"lastName":         "Sourtimes",
		"dateOfBirth":      "1990-04-12",
		"dateOfEmployment": "2022-09-23",
		"phoneNumber":      "+90 532 123 45 67",
		"email":            "ahmet@sourtimes.org",
		"department":       "Analytics",
		"position":         "Junior",
	}
}

func assertCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	st, ok := status.FromError(err)
	if !ok || st.Code() != want {
		t.Fatalf("expected %s, got %v", want, err)
	}
}

func TestRosterGrpcHandler_ListEmployees(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 20)
	resp, err := fx.handler.ListEmployees(context.Background(), mustStruct(t, map[string]any{"page": 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := resp.GetFields()
	if fields["totalPages"].GetNumberValue() != 2 || fields["total"].GetNumberValue() != 20 {
		t.Fatalf("unexpected meta: %v", resp)
	}
	rows := fields["employees"].GetListValue().GetValues()
	if len(rows) != 10 || rows[0].GetStructValue().GetFields()["id"].GetStringValue() != "11" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestRosterGrpcHandler_ListEmployees_InvalidArguments(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 1)
	_, err := fx.handler.ListEmployees(context.Background(), mustStruct(t, map[string]any{"page": "two"}))
	assertCode(t, err, codes.InvalidArgument)

	_, err = fx.handler.ListEmployees(context.Background(), mustStruct(t, map[string]any{"pageSize": 1.5}))
	assertCode(t, err, codes.InvalidArgument)

	_, err = fx.handler.ListEmployees(context.Background(), mustStruct(t, map[string]any{"pageSize": 1000}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestRosterGrpcHandler_CreateGetDelete(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 0)
	ctx := context.Background()

	created, err := fx.handler.CreateEmployee(ctx, mustStruct(t, validEmployeeFields()))
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	id := created.GetFields()["id"].GetStringValue()
	if id != "emp-1" {
		t.Fatalf("unexpected id %q", id)
	}

	found, err := fx.handler.GetEmployee(ctx, wrapperspb.String(id))
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if found.GetFields()["email"].GetStringValue() != "ahmet@sourtimes.org" {
		t.Fatalf("unexpected employee: %v", found)
	}

	if _, err := fx.handler.DeleteEmployee(ctx, wrapperspb.String(id)); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	_, err = fx.handler.GetEmployee(ctx, wrapperspb.String(id))
	assertCode(t, err, codes.NotFound)

	_, err = fx.handler.DeleteEmployee(ctx, wrapperspb.String(id))
	assertCode(t, err, codes.NotFound)
}

func TestRosterGrpcHandler_CreateEmployee_Invalid(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 0)

	fields := validEmployeeFields()
	fields["email"] = "not-an-email"
	_, err := fx.handler.CreateEmployee(context.Background(), mustStruct(t, fields))
	assertCode(t, err, codes.InvalidArgument)

	fields = validEmployeeFields()
	fields["firstName"] = 42
	_, err = fx.handler.CreateEmployee(context.Background(), mustStruct(t, fields))
	assertCode(t, err, codes.InvalidArgument)

	if fx.store.State().Len() != 0 {
		t.Fatal("invalid requests must not change the roster")
	}
}

func TestRosterGrpcHandler_UpdateEmployee(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 3)
	fields := validEmployeeFields()
	fields["id"] = "2"

	updated, err := fx.handler.UpdateEmployee(context.Background(), mustStruct(t, fields))
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	if updated.GetFields()["firstName"].GetStringValue() != "Ahmet" {
		t.Fatalf("unexpected employee: %v", updated)
	}
	if got, _ := fx.store.State().At(1); got.ID != "2" || got.FirstName != "Ahmet" {
		t.Fatalf("expected in-place update, got %+v", got)
	}

	fields["id"] = "missing"
	_, err = fx.handler.UpdateEmployee(context.Background(), mustStruct(t, fields))
	assertCode(t, err, codes.NotFound)
}

func TestRosterGrpcHandler_Dispatch(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 0)
	ctx := context.Background()

	add := mustStruct(t, map[string]any{
		"tag":     "ADD_EMPLOYEE",
		"payload": map[string]any{"id": "3", "firstName": "Ahmet"},
	})
	if _, err := fx.handler.Dispatch(ctx, add); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if got, _ := fx.store.State().At(0); fx.store.State().Len() != 1 || got.FirstName != "Ahmet" {
		t.Fatalf("unexpected state after add: %+v", fx.store.State().Employees())
	}

	before := fx.store.State()
	if _, err := fx.handler.Dispatch(ctx, mustStruct(t, map[string]any{"tag": "RESET_EVERYTHING"})); err != nil {
		t.Fatalf("unknown tag should be accepted, got %v", err)
	}
	if fx.store.State() != before {
		t.Fatal("unknown tag must not change state")
	}

	del := mustStruct(t, map[string]any{"tag": "DELETE_EMPLOYEE", "payload": "3"})
	if _, err := fx.handler.Dispatch(ctx, del); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if fx.store.State().Len() != 0 {
		t.Fatal("expected the employee to be removed")
	}

	_, err := fx.handler.Dispatch(ctx, mustStruct(t, map[string]any{"tag": "DELETE_EMPLOYEE", "payload": map[string]any{"id": 1}}))
	assertCode(t, err, codes.InvalidArgument)

	_, err = fx.handler.Dispatch(ctx, mustStruct(t, map[string]any{}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestRosterGrpcHandler_SetLocaleAndTranslate(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 0)
	ctx := context.Background()

	resp, err := fx.handler.SetLocale(ctx, wrapperspb.String("TR"))
	if err != nil {
		t.Fatalf("SetLocale returned error: %v", err)
	}
	if resp.GetValue() != "tr" {
		t.Fatalf("expected tr, got %s", resp.GetValue())
	}

	translated, _ := fx.handler.Translate(ctx, wrapperspb.String("firstName"))
	if translated.GetValue() != "Ad" {
		t.Fatalf("expected Ad, got %s", translated.GetValue())
	}
	missing, _ := fx.handler.Translate(ctx, wrapperspb.String("lastName"))
	if missing.GetValue() != "lastName" {
		t.Fatalf("expected key fallback, got %s", missing.GetValue())
	}

	_, err = fx.handler.SetLocale(ctx, wrapperspb.String("de"))
	assertCode(t, err, codes.Unavailable)
	if fx.i18n.CurrentLocale() != "tr" {
		t.Fatalf("failed load must keep tr, got %s", fx.i18n.CurrentLocale())
	}

	_, err = fx.handler.SetLocale(ctx, wrapperspb.String("!!"))
	assertCode(t, err, codes.InvalidArgument)
}

func TestToStatusError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("wrap: %w", employee.ErrInvalidEmployee), codes.InvalidArgument},
		{employee.ErrDuplicateID, codes.AlreadyExists},
		{employee.ErrEmployeeNotFound, codes.NotFound},
		{roster.ErrMalformedAction, codes.InvalidArgument},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		assertCode(t, toStatusError(tc.err), tc.want)
	}

	if toStatusError(nil) != nil {
		t.Fatal("nil error should stay nil")
	}
}

func TestRosterGrpcHandler_Dispatch_SetEmployeesRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, 2)
	before := fx.store.State()

	set := mustStruct(t, map[string]any{
		"tag": "SET_EMPLOYEES",
		"payload": []any{
			map[string]any{"id": "1", "firstName": "A"},
			map[string]any{"id": "1", "firstName": "B"},
		},
	})
	_, err := fx.handler.Dispatch(context.Background(), set)
	assertCode(t, err, codes.AlreadyExists)

	if fx.store.State() != before {
		t.Fatal("rejected dataset must not replace the roster")
	}

	missingID := mustStruct(t, map[string]any{
		"tag":     "SET_EMPLOYEES",
		"payload": []any{map[string]any{"firstName": "A"}},
	})
	_, err = fx.handler.Dispatch(context.Background(), missingID)
	assertCode(t, err, codes.InvalidArgument)

	valid := mustStruct(t, map[string]any{
		"tag":     "SET_EMPLOYEES",
		"payload": []any{map[string]any{"id": "9", "firstName": "C"}},
	})
	if _, err := fx.handler.Dispatch(context.Background(), valid); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if got, _ := fx.store.State().At(0); fx.store.State().Len() != 1 || got.ID != "9" {
		t.Fatalf("expected the roster to be replaced, got %+v", fx.store.State().Employees())
	}
}

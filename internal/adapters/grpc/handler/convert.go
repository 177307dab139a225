package handler

import (
	"fmt"
	"math"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/ogurasousui/employee-roster/internal/core/listing"
	"github.com/ogurasousui/employee-roster/internal/core/roster"
	"google.golang.org/protobuf/types/known/structpb"
)

func toStructEmployee(e employee.Employee) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":               structpb.NewStringValue(e.ID),
		"firstName":        structpb.NewStringValue(e.FirstName),
		"lastName":         structpb.NewStringValue(e.LastName),
		"dateOfBirth":      structpb.NewStringValue(e.DateOfBirth),
		"dateOfEmployment": structpb.NewStringValue(e.DateOfEmployment),
		"phoneNumber":      structpb.NewStringValue(e.PhoneNumber),
		"email":            structpb.NewStringValue(e.Email),
		"department":       structpb.NewStringValue(e.Department),
		"position":         structpb.NewStringValue(e.Position),
	}}
}

func toEmployeeList(list []employee.Employee) *structpb.Value {
	values := make([]*structpb.Value, 0, len(list))
	for _, e := range list {
		values = append(values, structpb.NewStructValue(toStructEmployee(e)))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func toStructListResult(r *roster.ListEmployeesResult) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"employees":  toEmployeeList(r.Employees),
		"page":       structpb.NewNumberValue(float64(r.Page)),
		"pageSize":   structpb.NewNumberValue(float64(r.PageSize)),
		"totalPages": structpb.NewNumberValue(float64(r.TotalPages)),
		"total":      structpb.NewNumberValue(float64(r.Total)),
	}}
}

func toStructPage(p listing.Page) *structpb.Struct {
	headers := make([]*structpb.Value, 0, len(p.Headers))
	for _, h := range p.Headers {
		headers = append(headers, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"key":   structpb.NewStringValue(h.Key),
			"label": structpb.NewStringValue(h.Label),
		}}))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"locale":      structpb.NewStringValue(p.Locale),
		"headers":     structpb.NewListValue(&structpb.ListValue{Values: headers}),
		"rows":        toEmployeeList(p.Rows),
		"currentPage": structpb.NewNumberValue(float64(p.CurrentPage)),
		"totalPages":  structpb.NewNumberValue(float64(p.TotalPages)),
		"total":       structpb.NewNumberValue(float64(p.Total)),
		"summary":     structpb.NewStringValue(p.Summary),
	}}
}

func toEmployeeForm(s *structpb.Struct) (employee.Form, error) {
	var form employee.Form
	targets := []struct {
		key string
		dst *string
	}{
		{"firstName", &form.FirstName},
		{"lastName", &form.LastName},
		{"dateOfBirth", &form.DateOfBirth},
		{"dateOfEmployment", &form.DateOfEmployment},
		{"phoneNumber", &form.PhoneNumber},
		{"email", &form.Email},
		{"department", &form.Department},
		{"position", &form.Position},
	}
	for _, t := range targets {
		v, err := stringField(s, t.key)
		if err != nil {
			return employee.Form{}, err
		}
		*t.dst = v
	}
	return form, nil
}

// stringField は未指定なら空文字を返します。
func stringField(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	case *structpb.Value_NullValue:
		return "", nil
	default:
		return "", fmt.Errorf("%s must be a string", key)
	}
}

// intField は未指定なら 0 を返します。
func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(n), nil
	case *structpb.Value_NullValue:
		return 0, nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

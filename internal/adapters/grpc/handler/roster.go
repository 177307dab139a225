package handler

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ogurasousui/employee-roster/internal/adapters/grpc/rosterv1"
	"github.com/ogurasousui/employee-roster/internal/core/listing"
	"github.com/ogurasousui/employee-roster/internal/core/locale"
	"github.com/ogurasousui/employee-roster/internal/core/roster"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RosterGrpcHandler は RosterService の gRPC 実装です。
type RosterGrpcHandler struct {
	svc          roster.UseCase
	store        *roster.Store
	i18n         *locale.Broadcaster
	itemsPerPage int
	log          logrus.FieldLogger
	rosterv1.UnimplementedRosterServiceServer
}

// NewRosterGrpcHandler は RosterGrpcHandler を生成します。
// itemsPerPage は Watch で pageSize が指定されなかったときのページサイズです。
func NewRosterGrpcHandler(svc roster.UseCase, store *roster.Store, i18n *locale.Broadcaster, itemsPerPage int, log logrus.FieldLogger) *RosterGrpcHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RosterGrpcHandler{
		svc:          svc,
		store:        store,
		i18n:         i18n,
		itemsPerPage: itemsPerPage,
		log:          log,
	}
}

// ListEmployees は社員の一覧を 1 ページ分返します。
func (h *RosterGrpcHandler) ListEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	page, err := intField(req, "page")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	pageSize, err := intField(req, "pageSize")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := h.svc.ListEmployees(ctx, roster.ListEmployeesInput{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructListResult(result), nil
}

// GetEmployee は社員を取得します。
func (h *RosterGrpcHandler) GetEmployee(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetEmployee(ctx, roster.GetEmployeeInput{ID: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructEmployee(found), nil
}

// CreateEmployee は社員を作成します。id は採番されるため指定しても無視されます。
func (h *RosterGrpcHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	form, err := toEmployeeForm(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	created, err := h.svc.CreateEmployee(ctx, roster.CreateEmployeeInput{Form: form})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructEmployee(created), nil
}

// UpdateEmployee は社員情報を置き換えます。
func (h *RosterGrpcHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := stringField(req, "id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	form, err := toEmployeeForm(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	updated, err := h.svc.UpdateEmployee(ctx, roster.UpdateEmployeeInput{ID: id, Form: form})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructEmployee(updated), nil
}

// DeleteEmployee は社員を削除します。
func (h *RosterGrpcHandler) DeleteEmployee(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteEmployee(ctx, roster.DeleteEmployeeInput{ID: req.GetValue()}); err != nil {
		return nil, toStatusError(err)
	}

	return &emptypb.Empty{}, nil
}

// Dispatch は {tag, payload} 形式のアクションを Store に適用し、適用が終わってから戻ります。
// SET_EMPLOYEES は ID の重複や欠落があれば拒否します。未知のタグは何もせずに成功します。
func (h *RosterGrpcHandler) Dispatch(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	tag, err := stringField(req, "tag")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if strings.TrimSpace(tag) == "" {
		return nil, status.Error(codes.InvalidArgument, "tag is required")
	}

	payload := json.RawMessage("null")
	if v, ok := req.GetFields()["payload"]; ok {
		b, err := protojson.Marshal(v)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		payload = b
	}

	action, err := roster.DecodeAction(tag, payload)
	if err != nil {
		return nil, toStatusError(err)
	}

	// 一覧の置き換えはデータセットとして検証してから適用する。
	if set, ok := action.(roster.SetEmployees); ok {
		err = h.svc.ReplaceEmployees(ctx, set.Employees)
	} else {
		err = h.store.DispatchAndWait(ctx, action)
	}
	if err != nil {
		return nil, toStatusError(err)
	}

	h.log.WithField("tag", tag).Debug("roster: action dispatched")
	return &emptypb.Empty{}, nil
}

// SetLocale はロケールを切り替え、完了後の現在のロケールを返します。
// 辞書を読み込めなかった場合は直前のロケールのまま Unavailable を返します。
func (h *RosterGrpcHandler) SetLocale(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	loc, err := locale.Canonicalize(req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}

	select {
	case <-h.i18n.RequestLocale(ctx, loc):
	case <-ctx.Done():
		return nil, toStatusError(ctx.Err())
	}

	if !h.i18n.Loaded(loc) {
		return nil, status.Errorf(codes.Unavailable, "locale %s could not be loaded", loc)
	}

	return wrapperspb.String(h.i18n.CurrentLocale()), nil
}

// Translate は現在のロケールでキーを翻訳します。
func (h *RosterGrpcHandler) Translate(_ context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	return wrapperspb.String(h.i18n.Translate(req.GetValue())), nil
}

// Watch は一覧画面の描画結果を送り、Store かロケールが変わるたびに再送します。
// 変化が短時間に重なった場合は最新の 1 回分にまとめて送ります。
func (h *RosterGrpcHandler) Watch(req *structpb.Struct, stream rosterv1.RosterService_WatchServer) error {
	page, err := intField(req, "page")
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	pageSize, err := intField(req, "pageSize")
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if pageSize == 0 {
		pageSize = h.itemsPerPage
	}

	view, err := listing.New(h.store, h.i18n, pageSize)
	if err != nil {
		return toStatusError(err)
	}
	defer view.Close()

	if page > 1 {
		view.ChangePage(page)
	}

	changed := make(chan struct{}, 1)
	unsubscribe := view.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ctx := stream.Context()
	log := h.log.WithField("method", "Watch")
	log.Debug("roster: watch started")
	for {
		if err := stream.Send(toStructPage(view.Render())); err != nil {
			log.WithError(err).Debug("roster: watch send failed")
			return err
		}
		select {
		case <-ctx.Done():
			log.Debug("roster: watch finished")
			return nil
		case <-changed:
		}
	}
}

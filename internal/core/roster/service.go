package roster

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/ogurasousui/employee-roster/internal/core/pagination"
)

const (
	defaultListPageSize = 10
	maxListPageSize     = 200
)

// IDGenerator は社員 ID を採番します。
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// Service はフォームや一覧画面から Store を操作するユースケースをまとめます。
// 入力の検証はここで行い、Store には整形済みのアクションだけを渡します。
// 更新系のメソッドは存在確認から適用完了までを直列化し、戻った時点で結果が State に反映されています。
// 購読者の中から呼び出してはいけません。
type Service struct {
	mu        sync.Mutex
	store     *Store
	ids       IDGenerator
	validator *employee.Validator
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (employee.Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (employee.Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (employee.Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
	ReplaceEmployees(ctx context.Context, employees []employee.Employee) error
}

// NewService は Service を生成します。ids が nil の場合は UUID v4 を採番します。
func NewService(store *Store, ids IDGenerator) *Service {
	if ids == nil {
		ids = uuidGenerator{}
	}
	return &Service{store: store, ids: ids, validator: employee.NewValidator()}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Form employee.Form
}

// UpdateEmployeeInput は社員更新時の入力です。フォームの全項目で置き換えます。
type UpdateEmployeeInput struct {
	ID   string
	Form employee.Form
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ListEmployeesInput は一覧取得時の入力です。Page は 1 始まりです。
type ListEmployeesInput struct {
	Page     int
	PageSize int
}

// ListEmployeesResult は一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees  []employee.Employee
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// CreateEmployee は新しい社員を採番して末尾に追加します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return employee.Employee{}, err
	}

	form := in.Form.Normalize()
	if err := s.validator.Validate(form); err != nil {
		return employee.Employee{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := form.ToEmployee(s.ids.NewID())
	if _, _, exists := s.store.State().Find(created.ID); exists {
		return employee.Employee{}, fmt.Errorf("id %s: %w", created.ID, employee.ErrDuplicateID)
	}

	if err := s.store.DispatchAndWait(ctx, NewAddEmployee(created)); err != nil {
		return employee.Employee{}, err
	}
	return created, nil
}

// UpdateEmployee は社員情報を一覧上の位置を保ったまま置き換えます。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return employee.Employee{}, err
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return employee.Employee{}, err
	}

	form := in.Form.Normalize()
	if err := s.validator.Validate(form); err != nil {
		return employee.Employee{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, ok := s.store.State().Find(id); !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	updated := form.ToEmployee(id)
	if err := s.store.DispatchAndWait(ctx, NewEditEmployee(updated)); err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

// DeleteEmployee は社員を削除します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, ok := s.store.State().Find(id); !ok {
		return employee.ErrEmployeeNotFound
	}

	return s.store.DispatchAndWait(ctx, NewDeleteEmployee(id))
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return employee.Employee{}, err
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return employee.Employee{}, err
	}

	found, _, ok := s.store.State().Find(id)
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return found, nil
}

// ListEmployees は指定ページの社員を返します。範囲外のページは空の一覧になります。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageSize, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	page := in.Page
	if page <= 0 {
		page = 1
	}

	all := s.store.State().Employees()
	return &ListEmployeesResult{
		Employees:  pagination.Slice(all, page, pageSize),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pagination.TotalPages(len(all), pageSize),
		Total:      len(all),
	}, nil
}

// ReplaceEmployees はデータセット全体を置き換えます。ID の重複があれば何もせずにエラーを返します。
func (s *Service) ReplaceEmployees(ctx context.Context, employees []employee.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := employee.ValidateDataset(employees); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DispatchAndWait(ctx, NewSetEmployees(employees))
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", employee.ErrInvalidID
	}
	return trimmed, nil
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, pagination.ErrInvalidPageSize
	}
	return pageSize, nil
}

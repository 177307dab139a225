package roster

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
)

// ErrMalformedAction は既知のタグに対してペイロードの形が合わないことを表します。
var ErrMalformedAction = errors.New("roster: malformed action payload")

// Tag はアクションの種別です。
type Tag string

const (
	TagSetEmployees   Tag = "SET_EMPLOYEES"
	TagAddEmployee    Tag = "ADD_EMPLOYEE"
	TagEditEmployee   Tag = "EDIT_EMPLOYEE"
	TagDeleteEmployee Tag = "DELETE_EMPLOYEE"
)

// Action は状態遷移の意図を表す閉じた直和型です。
// 実装はこのパッケージ内の型に限られます。
type Action interface {
	Tag() Tag
	sealed()
}

// SetEmployees は社員一覧を丸ごと置き換えます。
type SetEmployees struct {
	Employees []employee.Employee
}

// AddEmployee は社員を末尾に追加します。
type AddEmployee struct {
	Employee employee.Employee
}

// EditEmployee は同じ ID の社員をその位置のまま置き換えます。
type EditEmployee struct {
	Employee employee.Employee
}

// DeleteEmployee は指定 ID の社員を取り除きます。
type DeleteEmployee struct {
	ID string
}

// unknownAction は認識できないタグを運ぶだけで、reducer からは無視されます。
type unknownAction struct {
	tag Tag
}

func (SetEmployees) Tag() Tag    { return TagSetEmployees }
func (AddEmployee) Tag() Tag     { return TagAddEmployee }
func (EditEmployee) Tag() Tag    { return TagEditEmployee }
func (DeleteEmployee) Tag() Tag  { return TagDeleteEmployee }
func (a unknownAction) Tag() Tag { return a.tag }
func (SetEmployees) sealed()     {}
func (AddEmployee) sealed()      {}
func (EditEmployee) sealed()     {}
func (DeleteEmployee) sealed()   {}
func (unknownAction) sealed()    {}

// NewSetEmployees は SetEmployees アクションを生成します。
func NewSetEmployees(employees []employee.Employee) Action {
	return SetEmployees{Employees: employees}
}

// NewAddEmployee は AddEmployee アクションを生成します。
func NewAddEmployee(e employee.Employee) Action {
	return AddEmployee{Employee: e}
}

// NewEditEmployee は EditEmployee アクションを生成します。
func NewEditEmployee(e employee.Employee) Action {
	return EditEmployee{Employee: e}
}

// NewDeleteEmployee は DeleteEmployee アクションを生成します。
func NewDeleteEmployee(id string) Action {
	return DeleteEmployee{ID: id}
}

// DecodeAction は {tag, payload} 形式のワイヤ表現をアクションに変換します。
// 未知のタグはエラーにせず、何もしないアクションとして返します。
// 既知のタグでペイロードの形が合わない場合のみエラーになります。
func DecodeAction(tag string, payload json.RawMessage) (Action, error) {
	switch Tag(tag) {
	case TagSetEmployees:
		var list []employee.Employee
		if err := json.Unmarshal(payload, &list); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w: %w", tag, ErrMalformedAction, err)
		}
		return NewSetEmployees(list), nil
	case TagAddEmployee:
		var e employee.Employee
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w: %w", tag, ErrMalformedAction, err)
		}
		return NewAddEmployee(e), nil
	case TagEditEmployee:
		var e employee.Employee
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w: %w", tag, ErrMalformedAction, err)
		}
		return NewEditEmployee(e), nil
	case TagDeleteEmployee:
		var id string
		if err := json.Unmarshal(payload, &id); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w: %w", tag, ErrMalformedAction, err)
		}
		return NewDeleteEmployee(id), nil
	default:
		return unknownAction{tag: Tag(tag)}, nil
	}
}

package roster

import (
	"iter"
	"slices"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
)

// State はアプリケーション状態の不変スナップショットです。
// 変更は常に新しい *State として表現されるため、ポインタの比較で変化を検出できます。
type State struct {
	employees []employee.Employee
}

var initialState = &State{employees: []employee.Employee{}}

// InitialState は空の社員一覧を持つ初期状態を返します。
func InitialState() *State {
	return initialState
}

// Employees は社員一覧のコピーを挿入順で返します。
func (s *State) Employees() []employee.Employee {
	return slices.Clone(s.employees)
}

// Len は社員数を返します。
func (s *State) Len() int {
	return len(s.employees)
}

// At は i 番目の社員を返します。
func (s *State) At(i int) (employee.Employee, bool) {
	if i < 0 || i >= len(s.employees) {
		return employee.Employee{}, false
	}
	return s.employees[i], true
}

// Find は ID に一致する社員とその位置を返します。
func (s *State) Find(id string) (employee.Employee, int, bool) {
	for i, e := range s.employees {
		if e.ID == id {
			return e, i, true
		}
	}
	return employee.Employee{}, -1, false
}

// All は社員を位置とともに列挙します。
func (s *State) All() iter.Seq2[int, employee.Employee] {
	return func(yield func(int, employee.Employee) bool) {
		for i, e := range s.employees {
			if !yield(i, e) {
				return
			}
		}
	}
}

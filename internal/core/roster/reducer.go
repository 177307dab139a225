package roster

import (
	"slices"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
)

// Reduce は現在の状態とアクションから次の状態を計算する純粋関数です。
// 認識できないアクションと nil では同じポインタを返し、それ以外は内容が
// 変わらない場合でも必ず新しい State を返します。
func Reduce(state *State, action Action) *State {
	if state == nil {
		state = initialState
	}

	switch a := action.(type) {
	case SetEmployees:
		return &State{employees: slices.Clone(nonNil(a.Employees))}
	case AddEmployee:
		if _, _, exists := state.Find(a.Employee.ID); exists {
			return &State{employees: slices.Clone(state.employees)}
		}
		next := make([]employee.Employee, 0, len(state.employees)+1)
		next = append(next, state.employees...)
		return &State{employees: append(next, a.Employee)}
	case EditEmployee:
		next := make([]employee.Employee, len(state.employees))
		for i, e := range state.employees {
			if e.ID == a.Employee.ID {
				e = a.Employee
			}
			next[i] = e
		}
		return &State{employees: next}
	case DeleteEmployee:
		next := make([]employee.Employee, 0, len(state.employees))
		for _, e := range state.employees {
			if e.ID != a.ID {
				next = append(next, e)
			}
		}
		return &State{employees: next}
	default:
		return state
	}
}

func nonNil(list []employee.Employee) []employee.Employee {
	if list == nil {
		return []employee.Employee{}
	}
	return list
}

package roster

import (
	"reflect"
	"sync"
	"testing"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
)

func TestStore_AddThenDeleteScenario(t *testing.T) {
	t.Parallel()

	store := NewStore()
	if store.State().Len() != 0 {
		t.Fatalf("expected empty initial state")
	}

	store.Dispatch(NewAddEmployee(employee.Employee{ID: "1", FirstName: "Ahmet"}))

	state := store.State()
	if state.Len() != 1 {
		t.Fatalf("expected 1 employee, got %d", state.Len())
	}
	if e, _ := state.At(0); e.ID != "1" {
		t.Fatalf("expected id 1, got %s", e.ID)
	}

	store.Dispatch(NewDeleteEmployee("1"))
	if store.State().Len() != 0 {
		t.Fatalf("expected 0 employees, got %d", store.State().Len())
	}
}

func TestStore_NotifiesSubscribersInOrder(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var calls []string
	store.Subscribe(func() { calls = append(calls, "a") })
	store.Subscribe(func() { calls = append(calls, "b") })
	store.Subscribe(func() { calls = append(calls, "c") })

	store.Dispatch(NewAddEmployee(employee.Employee{ID: "1"}))

	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("unexpected notification order. want %v got %v", want, calls)
	}
}

func TestStore_NoNotificationForUnchangedState(t *testing.T) {
	t.Parallel()

	store := NewStore()
	calls := 0
	store.Subscribe(func() { calls++ })

	store.Dispatch(nil)
	if calls != 0 {
		t.Fatalf("expected no notification for nil action, got %d", calls)
	}

	// 内容が変わらない編集でも新しい値になるため通知される。
	store.Dispatch(NewEditEmployee(employee.Employee{ID: "missing"}))
	if calls != 1 {
		t.Fatalf("expected notification for edit of missing id, got %d", calls)
	}
}

func TestStore_SubscriberSeesCommittedState(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var seen int
	store.Subscribe(func() { seen = store.State().Len() })

	store.Dispatch(NewSetEmployees(makeEmployees(7)))

	if seen != 7 {
		t.Fatalf("subscriber should observe the new state, saw %d", seen)
	}
}

func TestStore_UnsubscribeDuringFanOut(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var (
		calls      []string
		unsubFirst func()
		unsubLast  func()
	)

	unsubFirst = store.Subscribe(func() {
		calls = append(calls, "first")
		unsubFirst()
	})
	store.Subscribe(func() {
		calls = append(calls, "middle")
		unsubLast()
	})
	unsubLast = store.Subscribe(func() { calls = append(calls, "last") })

	store.Dispatch(NewAddEmployee(employee.Employee{ID: "1"}))

	if want := []string{"first", "middle"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("unexpected calls. want %v got %v", want, calls)
	}

	calls = nil
	store.Dispatch(NewDeleteEmployee("1"))
	if want := []string{"middle"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("unexpected calls after unsubscribe. want %v got %v", want, calls)
	}

	unsubFirst()
	unsubLast()
	if store.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", store.SubscriberCount())
	}
}

func TestStore_ReentrantDispatchIsQueued(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var lens []int
	store.Subscribe(func() {
		state := store.State()
		lens = append(lens, state.Len())
		if state.Len() == 1 {
			store.Dispatch(NewAddEmployee(employee.Employee{ID: "2"}))
			// 再入した Dispatch は現在の通知が終わるまで適用されない。
			if store.State() != state {
				t.Errorf("nested dispatch interleaved with fan-out")
			}
		}
	})
	store.Subscribe(func() { lens = append(lens, -store.State().Len()) })

	store.Dispatch(NewAddEmployee(employee.Employee{ID: "1"}))

	if want := []int{1, -1, 2, -2}; !reflect.DeepEqual(lens, want) {
		t.Fatalf("unexpected fan-out sequence. want %v got %v", want, lens)
	}
	if store.State().Len() != 2 {
		t.Fatalf("expected both dispatches applied before return, got %d", store.State().Len())
	}
}

func TestStore_ConcurrentDispatchKeepsIDsUnique(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var (
		mu    sync.Mutex
		calls int
		wg    sync.WaitGroup
	)
	store.Subscribe(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%10))
			store.Dispatch(NewAddEmployee(employee.Employee{ID: id}))
		}(i)
	}
	wg.Wait()
	store.Dispatch(NewEditEmployee(employee.Employee{ID: "a", FirstName: "sync"}))

	mu.Lock()
	if calls != 21 {
		t.Errorf("expected one notification per dispatch, got %d", calls)
	}
	mu.Unlock()

	state := store.State()
	if state.Len() != 10 {
		t.Fatalf("expected 10 unique employees, got %d", state.Len())
	}
	seen := map[string]bool{}
	for _, e := range state.All() {
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

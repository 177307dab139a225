package notify

import (
	"reflect"
	"testing"
)

func TestRegistry_NotifiesInRegistrationOrder(t *testing.T) {
	t.Parallel()

	var (
		r     Registry
		calls []int
	)
	for i := 1; i <= 3; i++ {
		i := i
		r.Add(func() { calls = append(calls, i) })
	}

	r.Notify()

	if want := []int{1, 2, 3}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("unexpected call order. want %v got %v", want, calls)
	}
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	var r Registry
	calls := 0
	remove := r.Add(func() { calls++ })
	other := r.Add(func() {})

	remove()
	remove()

	if r.Len() != 1 {
		t.Fatalf("expected 1 listener, got %d", r.Len())
	}

	r.Notify()
	if calls != 0 {
		t.Fatalf("removed listener should not be called, got %d calls", calls)
	}

	other()
	if r.Len() != 0 {
		t.Fatalf("expected no listeners, got %d", r.Len())
	}
}

func TestRegistry_RemoveDuringNotify(t *testing.T) {
	t.Parallel()

	var (
		r           Registry
		calls       []string
		removeSelf  func()
		removeThird func()
	)

	removeSelf = r.Add(func() {
		calls = append(calls, "first")
		removeSelf()
	})
	r.Add(func() {
		calls = append(calls, "second")
		removeThird()
	})
	removeThird = r.Add(func() { calls = append(calls, "third") })

	r.Notify()

	if want := []string{"first", "second"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("unexpected calls. want %v got %v", want, calls)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 remaining listener, got %d", r.Len())
	}
}

func TestRegistry_AddDuringNotifyIsDeferred(t *testing.T) {
	t.Parallel()

	var r Registry
	lateCalls := 0
	added := false
	r.Add(func() {
		if !added {
			added = true
			r.Add(func() { lateCalls++ })
		}
	})

	r.Notify()
	if lateCalls != 0 {
		t.Fatalf("listener added during notify should wait for the next round, got %d", lateCalls)
	}

	r.Notify()
	if lateCalls != 1 {
		t.Fatalf("expected late listener to be called once, got %d", lateCalls)
	}
}

func TestRegistry_NilListener(t *testing.T) {
	t.Parallel()

	var r Registry
	remove := r.Add(nil)
	remove()

	if r.Len() != 0 {
		t.Fatalf("nil listener should not be registered")
	}
	r.Notify()
}

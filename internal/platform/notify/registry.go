package notify

import (
	"sync"
	"sync/atomic"
)

type listener struct {
	fn     func()
	active atomic.Bool
}

// Registry は引数なしのリスナーを登録順に保持し、一斉通知します。
// ゼロ値のまま利用できます。
type Registry struct {
	mu        sync.Mutex
	listeners []*listener
}

// Add はリスナーを登録し、その登録だけを解除する関数を返します。
// 返された関数は何度呼び出しても安全です。
func (r *Registry) Add(fn func()) func() {
	if fn == nil {
		return func() {}
	}

	l := &listener{fn: fn}
	l.active.Store(true)

	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(l) })
	}
}

func (r *Registry) remove(target *listener) {
	target.active.Store(false)

	r.mu.Lock()
	defer r.mu.Unlock()

	// 通知中のスナップショットを壊さないよう、常に新しいスライスを作る。
	next := make([]*listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		if l != target {
			next = append(next, l)
		}
	}
	r.listeners = next
}

// Notify は呼び出し時点で登録済みのリスナーを登録順に 1 回ずつ同期的に呼び出します。
// 通知中に解除されたリスナーは、まだ順番が来ていなければ呼び出されません。
// 通知中に追加されたリスナーは今回の通知の対象外です。
func (r *Registry) Notify() {
	r.mu.Lock()
	snapshot := r.listeners
	r.mu.Unlock()

	for _, l := range snapshot {
		if !l.active.Load() {
			continue
		}
		l.fn()
	}
}

// Len は登録中のリスナー数を返します。
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

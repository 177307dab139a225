package roster

import (
	"context"
	"sync/atomic"

	"github.com/ogurasousui/employee-roster/internal/platform/eventloop"
	"github.com/ogurasousui/employee-roster/internal/platform/notify"
)

// Store はアプリケーション状態を保持し、アクションの適用と購読者への通知を行います。
// 状態を書き換えるのは Dispatch だけです。
type Store struct {
	state       atomic.Pointer[State]
	loop        eventloop.Loop
	subscribers notify.Registry
}

// NewStore は初期状態の Store を生成します。
func NewStore() *Store {
	s := &Store{}
	s.state.Store(InitialState())
	return s
}

// State は現在のスナップショットを返します。
func (s *Store) State() *State {
	return s.state.Load()
}

// Dispatch はアクションを reducer で適用し、状態が変わった場合は登録順に
// すべての購読者を同期的に呼び出してから戻ります。
// 購読者の中から Dispatch した場合は、現在の通知が終わった後に順番に適用されます。
// 別のゴルーチンが通知中の場合も積むだけで戻るため、適用を待つ必要がある呼び出し元は
// DispatchAndWait を使ってください。
func (s *Store) Dispatch(action Action) {
	s.enqueue(action)
}

// DispatchAndWait はアクションが適用され、購読者への通知が終わるまで待ちます。
// ctx が先に終わった場合は ctx.Err() を返しますが、積まれたアクションは後で適用されます。
// 購読者の中から呼び出すとデッドロックするため、ループの外側からだけ使ってください。
func (s *Store) DispatchAndWait(ctx context.Context, action Action) error {
	select {
	case <-s.enqueue(action):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) enqueue(action Action) <-chan struct{} {
	return s.loop.Do(func() {
		prev := s.state.Load()
		next := Reduce(prev, action)
		if next == prev {
			return
		}
		s.state.Store(next)
		s.subscribers.Notify()
	})
}

// Subscribe は状態変化の通知先を登録し、その登録を解除する関数を返します。
// 購読者は引数を受け取らないので、必要に応じて State を読み直してください。
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.subscribers.Add(fn)
}

// SubscriberCount は登録中の購読者数を返します。
func (s *Store) SubscriberCount() int {
	return s.subscribers.Len()
}

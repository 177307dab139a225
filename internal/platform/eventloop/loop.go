package eventloop

import "sync"

// Loop は投入された処理を 1 本の論理スレッド上で順番に実行するシリアル実行器です。
// 専用のゴルーチンは持たず、アイドル状態で Do を呼び出した側がキューを消化します。
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

// Do は fn をキューに積み、ループがアイドルであればキューが空になるまで実行します。
// 実行中の処理 (fn 自身を含む) から呼ばれた場合は積むだけで即座に戻り、
// 積まれた処理は現在消化している呼び出しが戻る前に実行されます。
//
// 返されるチャネルは fn の実行が終わると close されます。別のゴルーチンが消化中のときは
// このチャネルで完了を待てますが、ループ上の処理から待つとデッドロックします。
func (l *Loop) Do(fn func()) <-chan struct{} {
	done := make(chan struct{})
	if fn == nil {
		close(done)
		return done
	}

	l.mu.Lock()
	l.queue = append(l.queue, func() {
		defer close(done)
		fn()
	})
	if l.running {
		l.mu.Unlock()
		return done
	}
	l.running = true
	l.mu.Unlock()

	l.drain()
	return done
}

func (l *Loop) drain() {
	defer func() {
		if r := recover(); r != nil {
			l.mu.Lock()
			l.running = false
			l.mu.Unlock()
			panic(r)
		}
	}()

	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.running = false
			l.mu.Unlock()
			return
		}
		next := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		next()
	}
}

// Pending はまだ実行されていない処理の数を返します。
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

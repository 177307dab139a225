package locale

import (
	"context"
	"sync"

	"github.com/ogurasousui/employee-roster/internal/platform/eventloop"
	"github.com/ogurasousui/employee-roster/internal/platform/notify"
	"github.com/sirupsen/logrus"
)

// Broadcaster は現在のロケールと読み込み済みの辞書を保持し、
// ロケールの切り替えが完了するたびにリスナーへ通知します。
//
// 既定では、同時に進行している読み込みのうち最後に完了したものが現在のロケールになります。
// WithSupersedeStale を指定すると、最後に要求されたロケール以外は切り替えを確定できません。
type Broadcaster struct {
	loader    Loader
	log       logrus.FieldLogger
	supersede bool

	loop      eventloop.Loop
	listeners notify.Registry
	inflight  sync.WaitGroup

	mu      sync.RWMutex
	current string
	tables  map[string]Table
	latest  uint64
}

// Option は Broadcaster の生成オプションです。
type Option func(*Broadcaster)

// WithLogger はロガーを指定します。
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Broadcaster) {
		if log != nil {
			b.log = log
		}
	}
}

// WithDefaultLocale は読み込み前のロケールを指定します。解釈できない値は無視されます。
func WithDefaultLocale(raw string) Option {
	return func(b *Broadcaster) {
		if loc, err := Canonicalize(raw); err == nil {
			b.current = loc
		}
	}
}

// WithSupersedeStale は要求の連番による保護を有効にします。
// 古い要求の読み込みが後から完了しても辞書はキャッシュされますが、ロケールは切り替わりません。
func WithSupersedeStale() Option {
	return func(b *Broadcaster) {
		b.supersede = true
	}
}

// New は Broadcaster を生成します。
func New(loader Loader, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		loader:  loader,
		log:     logrus.StandardLogger(),
		current: DefaultLocale,
		tables:  make(map[string]Table),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CurrentLocale は現在のロケールを返します。
func (b *Broadcaster) CurrentLocale() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Translate は現在のロケールの辞書から key を引きます。
// 辞書が未読み込み、キーが存在しない、または値が空の場合は key をそのまま返します。
func (b *Broadcaster) Translate(key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if v := b.tables[b.current][key]; v != "" {
		return v
	}
	return key
}

// Loaded は locale の辞書が読み込み済みかどうかを返します。
func (b *Broadcaster) Loaded(raw string) bool {
	loc, err := Canonicalize(raw)
	if err != nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.tables[loc]
	return ok
}

// Locales は読み込み済みのロケールを昇順で返します。
func (b *Broadcaster) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedKeys(b.tables)
}

// Subscribe はロケール切り替え完了の通知先を登録し、解除する関数を返します。
func (b *Broadcaster) Subscribe(fn func()) (unsubscribe func()) {
	return b.listeners.Add(fn)
}

// RequestLocale はロケールの切り替えを要求します。返されるチャネルは処理が終わると close されます。
//
// 辞書が読み込み済みであればその場で切り替えて通知します。未読み込みであれば
// Loader で非同期に取得し、成功すれば辞書を保存して切り替え、通知します。
// 失敗した場合はログに記録し、直前のロケールを維持します。
// いずれの場合も呼び出し元にエラーは返しません。
func (b *Broadcaster) RequestLocale(ctx context.Context, raw string) <-chan struct{} {
	done := make(chan struct{})

	loc, err := Canonicalize(raw)
	if err != nil {
		b.log.WithError(err).WithField("locale", raw).Error("locale: switch abandoned")
		close(done)
		return done
	}

	b.mu.Lock()
	b.latest++
	seq := b.latest
	_, cached := b.tables[loc]
	b.mu.Unlock()

	if cached {
		b.loop.Do(func() {
			defer close(done)
			b.commit(loc, nil, seq)
		})
		return done
	}

	b.inflight.Add(1)
	go func() {
		table, err := b.load(ctx, loc)
		// 別のゴルーチンがループを消化中だと Do は積むだけで戻るため、完了の記録は積んだ処理の中で行う。
		b.loop.Do(func() {
			defer b.inflight.Done()
			defer close(done)
			if err != nil {
				b.log.WithError(err).WithFields(logrus.Fields{
					"locale":  loc,
					"current": b.CurrentLocale(),
				}).Error("locale: load failed, keeping current locale")
				return
			}
			b.commit(loc, table, seq)
		})
	}()

	return done
}

// Wait は進行中の読み込みがすべて終わり、その結果が確定するまで待ちます。
func (b *Broadcaster) Wait() {
	b.inflight.Wait()
}

func (b *Broadcaster) load(ctx context.Context, loc string) (Table, error) {
	if b.loader == nil {
		return nil, ErrNoLoader
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.loader.Load(ctx, loc)
}

// commit はイベントループ上でのみ呼び出されます。table が nil の場合はキャッシュ済みの辞書を使います。
func (b *Broadcaster) commit(loc string, table Table, seq uint64) {
	b.mu.Lock()
	if table != nil {
		b.tables[loc] = cloneTable(table)
	} else if _, ok := b.tables[loc]; !ok {
		b.tables[loc] = Table{}
	}

	if b.supersede && seq != b.latest {
		b.mu.Unlock()
		b.log.WithField("locale", loc).Debug("locale: superseded by a newer request")
		return
	}

	b.current = loc
	b.mu.Unlock()

	b.log.WithField("locale", loc).Debug("locale: switched")
	b.listeners.Notify()
}

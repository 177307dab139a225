package listing

import (
	"fmt"
	"sync"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/ogurasousui/employee-roster/internal/core/locale"
	"github.com/ogurasousui/employee-roster/internal/core/pagination"
	"github.com/ogurasousui/employee-roster/internal/core/roster"
	"github.com/ogurasousui/employee-roster/internal/platform/notify"
)

// DefaultItemsPerPage は一覧画面の既定のページサイズです。
const DefaultItemsPerPage = 10

// ColumnKeys は一覧の列見出しに使う辞書キーを表示順に並べたものです。
var ColumnKeys = []string{
	"firstName",
	"lastName",
	"dateOfBirth",
	"dateOfEmployment",
	"phoneNumber",
	"email",
	"department",
	"position",
	"actions",
}

// Header は翻訳済みの列見出しです。
type Header struct {
	Key   string
	Label string
}

// Page は一覧画面 1 回分の描画結果です。
type Page struct {
	Locale      string
	Headers     []Header
	Rows        []employee.Employee
	CurrentPage int
	TotalPages  int
	Total       int
	Summary     string
}

// View は Store とロケールの両方を購読する一覧画面のビューモデルです。
// どちらかが変化すると OnChange で登録した関数を呼び出します。
type View struct {
	store *roster.Store
	i18n  *locale.Broadcaster

	mu    sync.Mutex
	pager *pagination.Pager

	changes notify.Registry
	unsubs  []func()
	closed  sync.Once
}

// New は View を生成し、Store と Broadcaster の購読を開始します。
// 利用後は Close で購読を解除してください。
func New(store *roster.Store, i18n *locale.Broadcaster, itemsPerPage int) (*View, error) {
	if itemsPerPage == 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	pager, err := pagination.New(itemsPerPage)
	if err != nil {
		return nil, err
	}

	v := &View{store: store, i18n: i18n, pager: pager}
	v.unsubs = append(v.unsubs, store.Subscribe(v.changes.Notify))
	if i18n != nil {
		v.unsubs = append(v.unsubs, i18n.Subscribe(v.changes.Notify))
	}
	return v, nil
}

// OnChange は再描画が必要になったときに呼ばれる関数を登録します。
func (v *View) OnChange(fn func()) (unsubscribe func()) {
	return v.changes.Add(fn)
}

// Render は現在ページを描画します。
func (v *View) Render() Page {
	all := v.store.State().Employees()

	v.mu.Lock()
	current := v.pager.CurrentPage()
	rows := pagination.Visible(v.pager, all)
	total := v.pager.TotalPages(len(all))
	v.mu.Unlock()

	headers := make([]Header, 0, len(ColumnKeys))
	for _, key := range ColumnKeys {
		headers = append(headers, Header{Key: key, Label: v.translate(key)})
	}

	return Page{
		Locale:      v.currentLocale(),
		Headers:     headers,
		Rows:        rows,
		CurrentPage: current,
		TotalPages:  total,
		Total:       len(all),
		Summary:     fmt.Sprintf("%s %d %s %d", v.translate("page"), current, v.translate("of"), total),
	}
}

// ChangePage は範囲内のページにだけ移動します。移動した場合は true を返し、再描画を通知します。
func (v *View) ChangePage(requested int) bool {
	totalItems := v.store.State().Len()

	v.mu.Lock()
	changed := v.pager.ChangePage(requested, totalItems)
	v.mu.Unlock()

	if changed {
		v.changes.Notify()
	}
	return changed
}

// Next は次のページへ移動します。
func (v *View) Next() bool {
	return v.ChangePage(v.CurrentPage() + 1)
}

// Prev は前のページへ移動します。
func (v *View) Prev() bool {
	return v.ChangePage(v.CurrentPage() - 1)
}

// CurrentPage は現在のページ番号を返します。
func (v *View) CurrentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pager.CurrentPage()
}

// Close は Store と Broadcaster の購読を解除します。複数回呼び出しても安全です。
func (v *View) Close() {
	v.closed.Do(func() {
		for _, unsub := range v.unsubs {
			unsub()
		}
	})
}

func (v *View) translate(key string) string {
	if v.i18n == nil {
		return key
	}
	return v.i18n.Translate(key)
}

func (v *View) currentLocale() string {
	if v.i18n == nil {
		return locale.DefaultLocale
	}
	return v.i18n.CurrentLocale()
}

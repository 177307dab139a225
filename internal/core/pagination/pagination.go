package pagination

import "errors"

// ErrInvalidPageSize は 1 件未満のページサイズが指定されたことを表します。
var ErrInvalidPageSize = errors.New("pagination: invalid page size")

// TotalPages は totalItems 件を itemsPerPage 件ずつ表示したときのページ数です。
// 0 件のときは 0 ページです。
func TotalPages(totalItems, itemsPerPage int) int {
	if totalItems <= 0 || itemsPerPage <= 0 {
		return 0
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}

// Slice は 1 始まりの currentPage に表示する要素を返します。
// 範囲外のページでも panic せず、範囲に切り詰めた結果 (空の場合あり) を返します。
func Slice[T any](items []T, currentPage, itemsPerPage int) []T {
	if itemsPerPage <= 0 || currentPage < 1 {
		return items[:0:0]
	}

	start := (currentPage - 1) * itemsPerPage
	if start >= len(items) {
		return items[:0:0]
	}
	end := min(start+itemsPerPage, len(items))
	return items[start:end:end]
}

// Pager は現在ページとページサイズを保持します。
type Pager struct {
	currentPage  int
	itemsPerPage int
}

// New は 1 ページ目を指す Pager を生成します。
func New(itemsPerPage int) (*Pager, error) {
	if itemsPerPage <= 0 {
		return nil, ErrInvalidPageSize
	}
	return &Pager{currentPage: 1, itemsPerPage: itemsPerPage}, nil
}

// CurrentPage は現在のページ番号 (1 始まり) を返します。
func (p *Pager) CurrentPage() int {
	return p.currentPage
}

// ItemsPerPage は 1 ページあたりの件数を返します。
func (p *Pager) ItemsPerPage() int {
	return p.itemsPerPage
}

// TotalPages は totalItems 件に対するページ数を返します。
func (p *Pager) TotalPages(totalItems int) int {
	return TotalPages(totalItems, p.itemsPerPage)
}

// ChangePage は 1 <= requested <= TotalPages(totalItems) の場合だけ現在ページを変更します。
// 範囲外の要求は黙って無視し、false を返します。
func (p *Pager) ChangePage(requested, totalItems int) bool {
	if requested < 1 || requested > p.TotalPages(totalItems) {
		return false
	}
	p.currentPage = requested
	return true
}

// Visible は現在ページに表示する要素を返します。
func Visible[T any](p *Pager, items []T) []T {
	return Slice(items, p.currentPage, p.itemsPerPage)
}

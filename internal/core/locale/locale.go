package locale

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale は一度も読み込みが行われていないときのロケールです。
const DefaultLocale = "en"

var (
	// ErrInvalidLocale はロケール識別子として解釈できない値であることを表します。
	ErrInvalidLocale = errors.New("locale: invalid locale")
	ErrNoLoader      = errors.New("locale: no loader configured")
	ErrNotFound      = errors.New("locale: dictionary not found")
)

// Table は翻訳キーから表示文字列への対応表です。
type Table map[string]string

// Loader はロケール識別子だけを手がかりに辞書を取得します。
type Loader interface {
	Load(ctx context.Context, locale string) (Table, error)
}

// LoaderFunc は関数を Loader として扱うためのアダプタです。
type LoaderFunc func(ctx context.Context, locale string) (Table, error)

// Load は f(ctx, locale) を呼び出します。
func (f LoaderFunc) Load(ctx context.Context, locale string) (Table, error) {
	return f(ctx, locale)
}

// Canonicalize はロケール識別子を BCP 47 の正規形に変換します ("TR" -> "tr", "pt_br" -> "pt-BR")。
func Canonicalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidLocale
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidLocale)
	}
	return tag.String(), nil
}

func cloneTable(t Table) Table {
	if t == nil {
		return Table{}
	}
	return maps.Clone(t)
}

func sortedKeys(m map[string]Table) []string {
	return slices.Sorted(maps.Keys(m))
}

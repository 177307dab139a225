package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ogurasousui/employee-roster/internal/core/locale"
	"gopkg.in/yaml.v3"
)

// ErrMalformed は辞書ファイルがキーと文字列のフラットな対応表になっていないことを表します。
var ErrMalformed = errors.New("catalog: malformed dictionary")

//go:embed locales/*.json
var embeddedFS embed.FS

var extensions = []string{".json", ".yaml", ".yml"}

// Loader は fs.FS 上の locales/<locale>.{json,yaml,yml} から辞書を読み込む locale.Loader です。
// JSON も YAML として解釈します。
type Loader struct {
	fsys fs.FS
	dir  string
}

// NewLoader は fsys 上の dir ディレクトリから辞書を読み込む Loader を生成します。
func NewLoader(fsys fs.FS, dir string) *Loader {
	if dir == "" {
		dir = "."
	}
	return &Loader{fsys: fsys, dir: dir}
}

// Embedded はバイナリに同梱された辞書 (en, tr) を読み込む Loader を返します。
func Embedded() *Loader {
	return NewLoader(embeddedFS, "locales")
}

// Dir は OS 上のディレクトリから辞書を読み込む Loader を返します。
func Dir(path string) *Loader {
	return NewLoader(os.DirFS(path), ".")
}

// Load は locale に対応する辞書を読み込みます。
func (l *Loader) Load(ctx context.Context, loc string) (locale.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ext := range extensions {
		name := l.dir + "/" + loc + ext
		b, err := fs.ReadFile(l.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		return decode(name, b)
	}

	return nil, fmt.Errorf("catalog: %s: %w", loc, locale.ErrNotFound)
}

func decode(name string, b []byte) (locale.Table, error) {
	var table map[string]string
	if err := yaml.Unmarshal(b, &table); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %v: %w", name, err, ErrMalformed)
	}
	if table == nil {
		return nil, fmt.Errorf("catalog: %s is empty: %w", name, ErrMalformed)
	}
	return locale.Table(table), nil
}

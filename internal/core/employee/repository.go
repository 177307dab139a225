package employee

import "context"

// Source は起動時に投入する社員データセットの取得元の抽象です。
// 取得したデータは読み取り専用で、書き戻しは行いません。
type Source interface {
	LoadAll(ctx context.Context) ([]Employee, error)
}

package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
)

// Source は社員レコードの JSON 配列ファイルを読み込む employee.Source 実装です。
type Source struct {
	path string
}

// NewSource は Source を生成します。
func NewSource(path string) *Source {
	return &Source{path: path}
}

// LoadAll はファイル全体を読み込み、社員の一覧を返します。
func (s *Source) LoadAll(ctx context.Context) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w", s.path, err)
	}

	return Decode(b)
}

// Decode は 9 個の文字列フィールドを持つフラットなレコードの配列を解釈します。
func Decode(b []byte) ([]employee.Employee, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var employees []employee.Employee
	if err := dec.Decode(&employees); err != nil {
		return nil, fmt.Errorf("jsonfile: %v: %w", err, employee.ErrDatasetMalformed)
	}
	if employees == nil {
		return nil, fmt.Errorf("jsonfile: expected an array: %w", employee.ErrDatasetMalformed)
	}

	if err := employee.ValidateDataset(employees); err != nil {
		return nil, fmt.Errorf("jsonfile: %w", err)
	}

	return employees, nil
}

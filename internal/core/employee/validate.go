package employee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form はフォームから送られてくる社員情報です。ID はサーバー側で採番します。
type Form struct {
	FirstName        string `validate:"required"`
	LastName         string `validate:"required"`
	DateOfBirth      string `validate:"required"`
	DateOfEmployment string `validate:"required"`
	PhoneNumber      string `validate:"required"`
	Email            string `validate:"required,email"`
	Department       string `validate:"required"`
	Position         string `validate:"required"`
}

// Validator はフォーム入力の形式を検証します。
type Validator struct {
	v *validator.Validate
}

// NewValidator は Validator を生成します。
func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Normalize は前後の空白を取り除いたフォームを返します。
func (f Form) Normalize() Form {
	return Form{
		FirstName:        strings.TrimSpace(f.FirstName),
		LastName:         strings.TrimSpace(f.LastName),
		DateOfBirth:      strings.TrimSpace(f.DateOfBirth),
		DateOfEmployment: strings.TrimSpace(f.DateOfEmployment),
		PhoneNumber:      strings.TrimSpace(f.PhoneNumber),
		Email:            strings.TrimSpace(f.Email),
		Department:       strings.TrimSpace(f.Department),
		Position:         strings.TrimSpace(f.Position),
	}
}

// Validate はフォームを検証し、問題があれば ErrInvalidEmployee をラップして返します。
func (v *Validator) Validate(f Form) error {
	err := v.v.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s: %w", strings.Join(fields, ", "), ErrInvalidEmployee)
	}
	return fmt.Errorf("%v: %w", err, ErrInvalidEmployee)
}

// ToEmployee は ID を付与して Employee を組み立てます。
func (f Form) ToEmployee(id string) Employee {
	return Employee{
		ID:               id,
		FirstName:        f.FirstName,
		LastName:         f.LastName,
		DateOfBirth:      f.DateOfBirth,
		DateOfEmployment: f.DateOfEmployment,
		PhoneNumber:      f.PhoneNumber,
		Email:            f.Email,
		Department:       f.Department,
		Position:         f.Position,
	}
}

// ValidateDataset は外部から取り込むデータセットの ID が空でなく一意であることを確認します。
func ValidateDataset(employees []Employee) error {
	seen := make(map[string]struct{}, len(employees))
	for i, e := range employees {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return fmt.Errorf("record %d: %w", i, ErrInvalidID)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("record %d (%s): %w", i, id, ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}
	return nil
}

package employee

import "errors"

var (
	ErrInvalidID        = errors.New("employee: invalid id")
	ErrInvalidEmployee  = errors.New("employee: invalid employee")
	ErrDuplicateID      = errors.New("employee: duplicate id")
	ErrEmployeeNotFound = errors.New("employee: not found")
	ErrDatasetMalformed = errors.New("employee: malformed dataset")
)

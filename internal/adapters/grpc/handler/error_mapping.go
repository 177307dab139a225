package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/ogurasousui/employee-roster/internal/core/locale"
	"github.com/ogurasousui/employee-roster/internal/core/pagination"
	"github.com/ogurasousui/employee-roster/internal/core/roster"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidEmployee),
		errors.Is(err, employee.ErrDatasetMalformed),
		errors.Is(err, pagination.ErrInvalidPageSize),
		errors.Is(err, roster.ErrMalformedAction),
		errors.Is(err, locale.ErrInvalidLocale):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrDuplicateID):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

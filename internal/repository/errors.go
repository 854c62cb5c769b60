package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"todotrek/internal/apperr"
)

// translate maps store errors onto apperr kinds. Driver messages stay in the
// cause and never reach Message.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, entity+" not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.KindConflict, entity+" already exists", err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperr.Wrap(apperr.KindInvalidArgument, entity+" violates a constraint", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.KindUnavailable, "store timeout", err)
	default:
		return apperr.Wrap(apperr.KindUnavailable, "store unavailable", err)
	}
}

// mustAffect turns a zero-row write into NOT_FOUND.
func mustAffect(res *gorm.DB, entity string) error {
	if res.Error != nil {
		return translate(res.Error, entity)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, entity+" not found")
	}
	return nil
}

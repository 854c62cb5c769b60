package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"todotrek/internal/apperr"
)

// ParseID validates an opaque entity identifier. what names the entity in
// the error message ("project", "task", ...).
func ParseID(what, raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidArgument, "invalid "+what+" ID format", err)
	}
	return id.String(), nil
}

const defaultStoreTimeout = 5 * time.Second

// deadlines bounds store work. Mutations detach from caller cancellation so
// a cascade either commits or rolls back as a unit.
type deadlines struct {
	timeout time.Duration
}

func (d deadlines) read(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.orDefault())
}

func (d deadlines) write(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), d.orDefault())
}

func (d deadlines) orDefault() time.Duration {
	if d.timeout <= 0 {
		return defaultStoreTimeout
	}
	return d.timeout
}

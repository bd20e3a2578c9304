// Package besteffort marks side effects whose failure is allowed to be lost.
//
// Tracking writes and the newsletter welcome email return errors like any
// other call. Passing that error to Discard records it and makes the decision
// to drop it visible at the call site.
package besteffort

import (
	"context"

	"portfolio_backend/internal/logger"
)

// Discard logs err, if any, as a non-fatal failure of op.
func Discard(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	logger.FromContext(ctx).Warn("best-effort operation failed", "op", op, "err", err)
}

// Do runs fn synchronously and discards its error.
func Do(ctx context.Context, op string, fn func(context.Context) error) {
	Discard(ctx, op, fn(ctx))
}

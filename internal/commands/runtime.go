package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

// DefaultCommandTimeout bounds command execution unless overridden.
const DefaultCommandTimeout = 30 * time.Second

func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout applies timeout unless it is zero or negative.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}

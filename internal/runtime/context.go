package runtime

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"slotting.dev/slotting/internal/config"
	"slotting.dev/slotting/internal/tui"
)

// Context provides access to configuration and output for commands
type Context struct {
	context.Context

	Config  *config.Config
	Manager *config.Manager
	Splog   *tui.Splog
	RunID   string
}

// NewContext creates a context with a fresh run identifier
func NewContext(ctx context.Context, mgr *config.Manager, cfg *config.Config, splog *tui.Splog) *Context {
	if splog == nil {
		splog = tui.NewSplog()
	}
	return &Context{
		Context: ctx,
		Config:  cfg,
		Manager: mgr,
		Splog:   splog,
		RunID:   uuid.NewString(),
	}
}

// Logger returns the structured logger tagged with the run identifier
func (c *Context) Logger() *slog.Logger {
	return c.Splog.Logger().With("run", c.RunID)
}

type contextKey struct{}

// WithContext stores rc in ctx
func WithContext(ctx context.Context, rc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// GetContext returns the runtime context stored by WithContext
func GetContext(ctx context.Context) (*Context, error) {
	if ctx == nil {
		return nil, errors.New("no command context")
	}
	rc, ok := ctx.Value(contextKey{}).(*Context)
	if !ok || rc == nil {
		return nil, errors.New("runtime context not initialized")
	}
	return rc, nil
}

// Package logger builds the zap logger shared by the service components.
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type actorKey struct{}

// New builds a logger. Format "json" selects the production encoder, anything
// else the human readable development encoder. An empty level keeps the
// encoder default.
func New(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	return cfg.Build()
}

// ContextWithActor stores the acting user id for WithActor.
func ContextWithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// WithActor returns log with an actor_id field when ctx carries one.
func WithActor(ctx context.Context, log *zap.Logger) *zap.Logger {
	if id, ok := ctx.Value(actorKey{}).(string); ok && id != "" {
		return log.With(zap.String("actor_id", id))
	}
	return log
}

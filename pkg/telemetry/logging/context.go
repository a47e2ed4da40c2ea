package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for validation run IDs.
	RunIDKey contextKey = "run_id"

	// ConfigPathKey is the context key for the configuration file path.
	ConfigPathKey contextKey = "config_path"

	// CommandKey is the context key for the CLI command name.
	CommandKey contextKey = "command"
)

// WithRunID adds a validation run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithConfigPath adds the configuration file path to the context.
func WithConfigPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ConfigPathKey, path)
}

// WithCommand adds the CLI command name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, CommandKey, command)
}

// extractContextFields pulls known keys out of the context as
// slog-style key/value pairs.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range []contextKey{RunIDKey, ConfigPathKey, CommandKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}

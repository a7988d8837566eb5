package config

import (
	"context"
	"log/slog"
)

type configKey struct{}
type loggerKey struct{}

// WithConfig stores the loaded config on the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from the context, or defaults.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{
		BackendURL:            DefaultBackendURL,
		BackendTimeoutSeconds: DefaultBackendTimeoutSeconds,
		Port:                  DefaultPort,
		SnapshotPath:          DefaultSnapshotPath,
		SaveDebounceMS:        DefaultSaveDebounceMS,
		EditFlushMS:           DefaultEditFlushMS,
		Concurrency:           DefaultConcurrency,
	}
}

// WithLogger stores the logger on the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext retrieves the logger from the context; a missing logger
// discards.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

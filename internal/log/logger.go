// SPDX-License-Identifier: MIT

package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Env fallbacks, consulted when Configure gets zero values.
const (
	envLevel   = "XMLTV_LOG_LEVEL"
	envService = "XMLTV_LOG_SERVICE"
	envVersion = "XMLTV_VERSION"
)

const defaultService = "xmltv"

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stdout)
	Service string    // optional service name attached to every log entry
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global zerolog logger exactly once; later
// calls are no-ops. Runtime level changes go through
// zerolog.SetGlobalLevel instead.
func Configure(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(resolveLevel(cfg.Level))
		zerolog.TimeFieldFormat = time.RFC3339
		base = build(cfg)
	})
}

// resolveLevel picks the first parseable level: explicit config, then
// environment, then info.
func resolveLevel(explicit string) zerolog.Level {
	for _, candidate := range []string{explicit, os.Getenv(envLevel)} {
		if candidate == "" {
			continue
		}
		if parsed, err := zerolog.ParseLevel(candidate); err == nil {
			return parsed
		}
	}
	return zerolog.InfoLevel
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	service := cfg.Service
	if service == "" {
		if service = os.Getenv(envService); service == "" {
			service = defaultService
		}
	}

	logctx := zerolog.New(out).With().
		Timestamp().
		Str("service", service)
	if v := os.Getenv(envVersion); v != "" {
		logctx = logctx.Str("version", v)
	}
	return logctx.Logger()
}

func logger() zerolog.Logger {
	Configure(Config{})
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str(FieldComponent, component).Logger()
}

// Derive attaches arbitrary fields to a child logger using the provided builder function.
func Derive(build func(*zerolog.Context)) zerolog.Logger {
	ctx := logger().With()
	if build != nil {
		build(&ctx)
	}
	return ctx.Logger()
}

func init() {
	Configure(Config{})
}

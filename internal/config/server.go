// SPDX-License-Identifier: MIT

package config

import "time"

// ServerConfig carries the HTTP server runtime tuning. These knobs are
// environment-only; they sit outside Settings because they never
// change the pipeline's behavior, only how the listener behaves.
type ServerConfig struct {
	// ReadTimeout is the maximum duration for reading an entire
	// request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before a response write
	// times out.
	WriteTimeout time.Duration

	// IdleTimeout is how long a keep-alive connection may sit idle.
	IdleTimeout time.Duration

	// MaxHeaderBytes bounds request header parsing.
	MaxHeaderBytes int

	// ShutdownTimeout bounds graceful drain on shutdown.
	ShutdownTimeout time.Duration
}

// serverDefaults tune the listener for small control-plane responses.
// The write timeout leaves room for serving a full guide to a slow
// client.
var serverDefaults = ServerConfig{
	ReadTimeout:     30 * time.Second,
	WriteTimeout:    60 * time.Second,
	IdleTimeout:     90 * time.Second,
	MaxHeaderBytes:  1 << 20,
	ShutdownTimeout: 10 * time.Second,
}

// ParseServerConfig reads the server tuning from the environment.
func ParseServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:     ParseDuration("XMLTV_READ_TIMEOUT", serverDefaults.ReadTimeout),
		WriteTimeout:    ParseDuration("XMLTV_WRITE_TIMEOUT", serverDefaults.WriteTimeout),
		IdleTimeout:     ParseDuration("XMLTV_IDLE_TIMEOUT", serverDefaults.IdleTimeout),
		MaxHeaderBytes:  ParseInt("XMLTV_MAX_HEADER_BYTES", serverDefaults.MaxHeaderBytes),
		ShutdownTimeout: ParseDuration("XMLTV_SHUTDOWN_TIMEOUT", serverDefaults.ShutdownTimeout),
	}
}

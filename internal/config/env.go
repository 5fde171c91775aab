// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gitpan/xmltv/internal/log"
)

// parseEnv reads key and converts it with parse. Unset or empty
// variables yield the default; values that fail to parse are warned
// about and also fall back.
func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	logger := log.WithComponent("config")

	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		logger.Debug().
			Str("key", key).
			Interface("default", defaultValue).
			Str("source", "default").
			Msg("using default value")
		return defaultValue
	}

	value, err := parse(raw)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", raw).
			Interface("default", defaultValue).
			Msg("unparseable environment variable, using default")
		return defaultValue
	}

	logger.Debug().
		Str("key", key).
		Interface("value", value).
		Str("source", "environment").
		Msg("using environment variable")
	return value
}

// ParseString reads a string from the environment or returns the
// default. The chosen source is logged for observability.
func ParseString(key, defaultValue string) string {
	return parseEnv(key, defaultValue, func(raw string) (string, error) {
		return raw, nil
	})
}

// ParseInt reads an integer from the environment or returns the
// default.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// ParseBool reads a boolean from the environment. It accepts "true",
// "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, parseBool)
}

// parseBool accepts a wider vocabulary than strconv.ParseBool so that
// container env files reading yes/no keep working.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", raw)
}

// ParseDuration reads a Go duration ("5s", "2m") from the environment
// or returns the default.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// ParseFloat reads a float64 from the environment or returns the
// default.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(raw string) (float64, error) {
		return strconv.ParseFloat(raw, 64)
	})
}

// ParseStringSlice reads a comma-separated list from the environment or
// returns the default. Elements are trimmed; empty elements dropped.
func ParseStringSlice(key string, defaultValue []string) []string {
	raw := ParseString(key, "")
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

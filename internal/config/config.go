// SPDX-License-Identifier: MIT

// Package config assembles the daemon configuration from defaults, an
// optional YAML file and XMLTV_* environment variables, in that order
// of increasing precedence. File parsing is strict: unknown keys fail.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gitpan/xmltv/internal/telemetry"
)

// Settings is the effective daemon configuration after all sources are
// merged.
type Settings struct {
	// Listen is the HTTP bind address.
	Listen string

	// DataDir holds run artifacts: the output document and, when
	// enabled, the run history database.
	DataDir string

	// Inputs are the XMLTV files or globs to normalize.
	Inputs []string

	// Output is the normalized document path. Relative paths are
	// resolved under DataDir.
	Output string

	// ByChannel groups output by channel instead of one global order.
	ByChannel bool

	// Location is the IANA zone for offset-less timestamps.
	Location string

	// Workers bounds per-channel parallelism, 0 = GOMAXPROCS.
	Workers int

	// AliasFile is an optional channel alias table (YAML).
	AliasFile string

	// Watch re-runs normalization when an input file changes.
	Watch bool

	// InitialRun normalizes once at startup.
	InitialRun bool

	// HistoryDB is the run history SQLite path, empty disables history.
	// Relative paths are resolved under DataDir.
	HistoryDB string

	// LogLevel overrides the zerolog level.
	LogLevel string

	// RateLimit caps API requests per minute per client address.
	RateLimit int

	// Environment tags telemetry with the deployment environment.
	Environment string

	// TraceEnabled, TraceExporter, TraceEndpoint and TraceSampleRate
	// configure OTLP tracing.
	TraceEnabled    bool
	TraceExporter   string
	TraceEndpoint   string
	TraceSampleRate float64
}

// FileConfig mirrors Settings in YAML. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it sets.
type FileConfig struct {
	Listen     *string  `yaml:"listen"`
	DataDir    *string  `yaml:"data_dir"`
	Inputs     []string `yaml:"inputs"`
	Output     *string  `yaml:"output"`
	ByChannel  *bool    `yaml:"by_channel"`
	Location   *string  `yaml:"location"`
	Workers    *int     `yaml:"workers"`
	AliasFile  *string  `yaml:"alias_file"`
	Watch      *bool    `yaml:"watch"`
	InitialRun *bool    `yaml:"initial_run"`
	HistoryDB  *string  `yaml:"history_db"`
	LogLevel   *string  `yaml:"log_level"`
	RateLimit  *int     `yaml:"rate_limit"`

	Environment *string `yaml:"environment"`

	Tracing *struct {
		Enabled    *bool    `yaml:"enabled"`
		Exporter   *string  `yaml:"exporter"`
		Endpoint   *string  `yaml:"endpoint"`
		SampleRate *float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`
}

// Default returns the baseline configuration.
func Default() Settings {
	return Settings{
		Listen:          ":8080",
		DataDir:         "data",
		Output:          "guide.xml",
		Location:        "UTC",
		InitialRun:      true,
		LogLevel:        "info",
		RateLimit:       300,
		Environment:     "development",
		TraceExporter:   "grpc",
		TraceEndpoint:   "localhost:4317",
		TraceSampleRate: 1.0,
	}
}

// Load merges defaults, the YAML file at path (optional, "" skips) and
// the environment, then validates the result.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return Settings{}, err
		}
		applyFile(&s, fileCfg)
	}
	applyEnv(&s)

	s.DataDir = os.ExpandEnv(s.DataDir)
	s.Output = resolveUnder(s.DataDir, os.ExpandEnv(s.Output))
	if s.HistoryDB != "" {
		s.HistoryDB = resolveUnder(s.DataDir, os.ExpandEnv(s.HistoryDB))
	}
	s.AliasFile = os.ExpandEnv(s.AliasFile)
	for i, in := range s.Inputs {
		s.Inputs[i] = os.ExpandEnv(in)
	}

	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// readFile parses the YAML config strictly; unknown fields are errors,
// an empty file is an empty config.
func readFile(path string) (*FileConfig, error) {
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean) // #nosec G304 -- operator-provided path
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}
	return &fileCfg, nil
}

func applyFile(s *Settings, f *FileConfig) {
	if f.Listen != nil {
		s.Listen = *f.Listen
	}
	if f.DataDir != nil {
		s.DataDir = *f.DataDir
	}
	if len(f.Inputs) > 0 {
		s.Inputs = append([]string(nil), f.Inputs...)
	}
	if f.Output != nil {
		s.Output = *f.Output
	}
	if f.ByChannel != nil {
		s.ByChannel = *f.ByChannel
	}
	if f.Location != nil {
		s.Location = *f.Location
	}
	if f.Workers != nil {
		s.Workers = *f.Workers
	}
	if f.AliasFile != nil {
		s.AliasFile = *f.AliasFile
	}
	if f.Watch != nil {
		s.Watch = *f.Watch
	}
	if f.InitialRun != nil {
		s.InitialRun = *f.InitialRun
	}
	if f.HistoryDB != nil {
		s.HistoryDB = *f.HistoryDB
	}
	if f.LogLevel != nil {
		s.LogLevel = *f.LogLevel
	}
	if f.RateLimit != nil {
		s.RateLimit = *f.RateLimit
	}
	if f.Environment != nil {
		s.Environment = *f.Environment
	}
	if f.Tracing != nil {
		if f.Tracing.Enabled != nil {
			s.TraceEnabled = *f.Tracing.Enabled
		}
		if f.Tracing.Exporter != nil {
			s.TraceExporter = *f.Tracing.Exporter
		}
		if f.Tracing.Endpoint != nil {
			s.TraceEndpoint = *f.Tracing.Endpoint
		}
		if f.Tracing.SampleRate != nil {
			s.TraceSampleRate = *f.Tracing.SampleRate
		}
	}
}

func applyEnv(s *Settings) {
	s.Listen = ParseString("XMLTV_LISTEN", s.Listen)
	s.DataDir = ParseString("XMLTV_DATA_DIR", s.DataDir)
	s.Inputs = ParseStringSlice("XMLTV_INPUTS", s.Inputs)
	s.Output = ParseString("XMLTV_OUTPUT", s.Output)
	s.ByChannel = ParseBool("XMLTV_BY_CHANNEL", s.ByChannel)
	s.Location = ParseString("XMLTV_LOCATION", s.Location)
	s.Workers = ParseInt("XMLTV_WORKERS", s.Workers)
	s.AliasFile = ParseString("XMLTV_ALIAS_FILE", s.AliasFile)
	s.Watch = ParseBool("XMLTV_WATCH", s.Watch)
	s.InitialRun = ParseBool("XMLTV_INITIAL_RUN", s.InitialRun)
	s.HistoryDB = ParseString("XMLTV_HISTORY_DB", s.HistoryDB)
	s.LogLevel = ParseString("XMLTV_LOG_LEVEL", s.LogLevel)
	s.RateLimit = ParseInt("XMLTV_RATE_LIMIT", s.RateLimit)
	s.Environment = ParseString("XMLTV_ENVIRONMENT", s.Environment)
	s.TraceEnabled = ParseBool("XMLTV_TRACE_ENABLED", s.TraceEnabled)
	s.TraceExporter = ParseString("XMLTV_TRACE_EXPORTER", s.TraceExporter)
	s.TraceEndpoint = ParseString("XMLTV_TRACE_ENDPOINT", s.TraceEndpoint)
	s.TraceSampleRate = ParseFloat("XMLTV_TRACE_SAMPLE_RATE", s.TraceSampleRate)
}

// Validate rejects configurations the daemon cannot start with.
func Validate(s Settings) error {
	if s.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if s.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if len(s.Inputs) == 0 {
		return fmt.Errorf("at least one input is required")
	}
	if s.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	if s.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive, got %d", s.RateLimit)
	}
	if _, err := time.LoadLocation(s.Location); err != nil {
		return fmt.Errorf("location %q: %w", s.Location, err)
	}
	if s.TraceEnabled {
		if s.TraceExporter != "grpc" && s.TraceExporter != "http" {
			return fmt.Errorf("tracing exporter %q: want grpc or http", s.TraceExporter)
		}
		if s.TraceSampleRate < 0 || s.TraceSampleRate > 1 {
			return fmt.Errorf("tracing sample_rate %v out of range [0,1]", s.TraceSampleRate)
		}
	}
	return nil
}

// Telemetry maps the settings onto the tracer provider configuration.
func (s Settings) Telemetry(serviceName, version string) telemetry.Config {
	return telemetry.Config{
		Enabled:        s.TraceEnabled,
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    s.Environment,
		Exporter:       s.TraceExporter,
		Endpoint:       s.TraceEndpoint,
		SampleRate:     s.TraceSampleRate,
	}
}

// resolveUnder joins path under dir unless path is already absolute.
func resolveUnder(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

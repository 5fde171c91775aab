// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("XMLTV_INPUTS", "a.xml,b.xml")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cmp.Equal(s.Inputs, []string{"a.xml", "b.xml"}) {
		t.Errorf("Inputs = %v", s.Inputs)
	}
	if s.Listen != ":8080" || s.Location != "UTC" || !s.InitialRun {
		t.Errorf("defaults not applied: %+v", s)
	}
	if s.Output != filepath.Join("data", "guide.xml") {
		t.Errorf("Output = %q, want resolved under data dir", s.Output)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
data_dir: /var/lib/xmltv
inputs: ["/srv/feeds/one.xml", "/srv/feeds/two.xml"]
output: merged.xml
by_channel: true
location: Europe/Vienna
workers: 4
rate_limit: 10
tracing:
  enabled: false
  sample_rate: 0.5
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Listen != ":9090" {
		t.Errorf("Listen = %q", s.Listen)
	}
	if !s.ByChannel || s.Workers != 4 || s.Location != "Europe/Vienna" {
		t.Errorf("file fields not applied: %+v", s)
	}
	if s.Output != "/var/lib/xmltv/merged.xml" {
		t.Errorf("Output = %q, want under data_dir", s.Output)
	}
	if s.TraceSampleRate != 0.5 {
		t.Errorf("TraceSampleRate = %v", s.TraceSampleRate)
	}
	// Unset file fields keep defaults.
	if s.LogLevel != "info" || !s.InitialRun {
		t.Errorf("defaults lost: %+v", s)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
inputs: ["one.xml"]
workers: 2
location: UTC
`)
	t.Setenv("XMLTV_WORKERS", "8")
	t.Setenv("XMLTV_LOCATION", "Europe/Berlin")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Workers != 8 {
		t.Errorf("Workers = %d, want env override 8", s.Workers)
	}
	if s.Location != "Europe/Berlin" {
		t.Errorf("Location = %q, want env override", s.Location)
	}
}

func TestLoadStrictRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "inputs: [a.xml]\nbouquet: premium\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected strict parse error")
	} else if !strings.Contains(err.Error(), "strict config parse error") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("XMLTV_INPUTS", "a.xml")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Listen != ":8080" {
		t.Errorf("empty file must keep defaults, got %+v", s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadExpandsEnvInPaths(t *testing.T) {
	t.Setenv("GUIDE_HOME", "/srv/guide")
	path := writeConfig(t, `
inputs: ["$GUIDE_HOME/in.xml"]
data_dir: ${GUIDE_HOME}/data
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.DataDir != "/srv/guide/data" {
		t.Errorf("DataDir = %q", s.DataDir)
	}
	if s.Inputs[0] != "/srv/guide/in.xml" {
		t.Errorf("Inputs[0] = %q", s.Inputs[0])
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Inputs = []string{"a.xml"}

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty listen", func(s *Settings) { s.Listen = "" }},
		{"empty data dir", func(s *Settings) { s.DataDir = "" }},
		{"no inputs", func(s *Settings) { s.Inputs = nil }},
		{"empty output", func(s *Settings) { s.Output = "" }},
		{"negative workers", func(s *Settings) { s.Workers = -1 }},
		{"zero rate limit", func(s *Settings) { s.RateLimit = 0 }},
		{"bad location", func(s *Settings) { s.Location = "Mars/Olympus" }},
		{"bad exporter", func(s *Settings) { s.TraceEnabled = true; s.TraceExporter = "smoke" }},
		{"sample rate out of range", func(s *Settings) { s.TraceEnabled = true; s.TraceSampleRate = 2 }},
	}

	if err := Validate(valid); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Inputs = append([]string(nil), valid.Inputs...)
			tt.mutate(&s)
			if err := Validate(s); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestTelemetryMapping(t *testing.T) {
	s := Default()
	s.TraceEnabled = true
	s.TraceEndpoint = "collector:4317"
	s.Environment = "production"

	tc := s.Telemetry("xmltv", "1.2.3")
	if !tc.Enabled || tc.ServiceName != "xmltv" || tc.ServiceVersion != "1.2.3" {
		t.Errorf("telemetry config = %+v", tc)
	}
	if tc.Endpoint != "collector:4317" || tc.Environment != "production" {
		t.Errorf("telemetry config = %+v", tc)
	}
}

// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestConfigureOnce(t *testing.T) {
	// Configure runs in init; further calls must not reset the base logger.
	first := Base()
	Configure(Config{Service: "other", Level: "trace"})
	second := Base()
	if first.GetLevel() != second.GetLevel() {
		t.Error("Configure must be a no-op after the first call")
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		name     string
		explicit string
		env      string
		want     zerolog.Level
	}{
		{"explicit wins", "debug", "warn", zerolog.DebugLevel},
		{"env fallback", "", "warn", zerolog.WarnLevel},
		{"unparseable explicit falls through", "loud", "error", zerolog.ErrorLevel},
		{"default", "", "", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(envLevel, tc.env)
			if got := resolveLevel(tc.explicit); got != tc.want {
				t.Errorf("resolveLevel(%q) = %v, want %v", tc.explicit, got, tc.want)
			}
		})
	}
}

func TestWithComponentField(t *testing.T) {
	var buf bytes.Buffer
	orig := base
	base = zerolog.New(&buf)
	defer func() { base = orig }()

	WithComponent("guide").Info().Msg("sorted")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["component"] != "guide" {
		t.Errorf("component = %v, want guide", entry["component"])
	}
	if entry["message"] != "sorted" {
		t.Errorf("message = %v, want sorted", entry["message"])
	}
}

func TestDeriveFields(t *testing.T) {
	var buf bytes.Buffer
	orig := base
	base = zerolog.New(&buf)
	defer func() { base = orig }()

	l := Derive(func(ctx *zerolog.Context) {
		*ctx = ctx.Str(FieldChannelID, "bbc1.uk")
	})
	l.Info().Msg("derived")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry[FieldChannelID] != "bbc1.uk" {
		t.Errorf("channel_id = %v, want bbc1.uk", entry[FieldChannelID])
	}
}

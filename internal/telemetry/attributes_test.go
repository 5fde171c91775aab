// SPDX-License-Identifier: MIT
package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func findAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRunAttributes(t *testing.T) {
	attrs := RunAttributes("run-42", "watcher")
	if v, ok := findAttr(attrs, RunIDKey); !ok || v.AsString() != "run-42" {
		t.Errorf("run.id = %v", v)
	}
	if v, ok := findAttr(attrs, RunTriggerKey); !ok || v.AsString() != "watcher" {
		t.Errorf("run.trigger = %v", v)
	}
}

func TestDocumentAttributesOmitsEmpty(t *testing.T) {
	if attrs := DocumentAttributes("", 0); len(attrs) != 0 {
		t.Errorf("empty document produced %d attributes", len(attrs))
	}

	attrs := DocumentAttributes("/data/guide.xml", 2048)
	if len(attrs) != 2 {
		t.Fatalf("len = %d, want 2", len(attrs))
	}
	if v, _ := findAttr(attrs, DocBytesKey); v.AsInt64() != 2048 {
		t.Errorf("doc.bytes = %v", v)
	}
}

func TestScheduleAttributes(t *testing.T) {
	attrs := ScheduleAttributes(3, 100, 98, 2, 5, 1)
	want := map[string]int64{
		ScheduleChannelsKey:      3,
		ScheduleProgrammesInKey:  100,
		ScheduleProgrammesOutKey: 98,
		ScheduleDuplicatesKey:    2,
		ScheduleStopsInferredKey: 5,
		ScheduleWarningsKey:      1,
	}
	for key, n := range want {
		if v, ok := findAttr(attrs, key); !ok || v.AsInt64() != n {
			t.Errorf("%s = %v, want %d", key, v, n)
		}
	}
}

func TestErrorAttributes(t *testing.T) {
	attrs := ErrorAttributes("decode")
	if v, ok := findAttr(attrs, ErrorKey); !ok || !v.AsBool() {
		t.Error("error flag not set")
	}
	if v, ok := findAttr(attrs, ErrorStageKey); !ok || v.AsString() != "decode" {
		t.Errorf("error.stage = %v", v)
	}
}

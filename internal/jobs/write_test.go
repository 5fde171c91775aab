// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gitpan/xmltv/internal/xmltv"
)

func testDoc(title string) *xmltv.TV {
	return &xmltv.TV{
		Channels: []xmltv.Channel{
			{ID: "c1", DisplayName: []xmltv.Text{{Value: "Channel One"}}},
		},
		Programmes: []xmltv.Programme{
			{
				Start:   "20260101080000 +0000",
				Stop:    "20260101090000 +0000",
				Channel: "c1",
				Titles:  []xmltv.Text{{Value: title}},
			},
		},
	}
}

func TestWriteGuideCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "guide.xml")

	n, err := writeGuide(context.Background(), path, testDoc("First"))
	if err != nil {
		t.Fatalf("writeGuide: %v", err)
	}
	if n <= 0 {
		t.Fatalf("wrote %d bytes, want > 0", n)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != n {
		t.Errorf("file size %d, reported %d", info.Size(), n)
	}

	doc, err := xmltv.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(doc.Programmes) != 1 || doc.Programmes[0].Titles[0].Value != "First" {
		t.Errorf("read back %+v, want the written programme", doc.Programmes)
	}
}

func TestWriteGuideReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.xml")
	ctx := context.Background()

	if _, err := writeGuide(ctx, path, testDoc("First")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := writeGuide(ctx, path, testDoc("Second")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	doc, err := xmltv.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := doc.Programmes[0].Titles[0].Value; got != "Second" {
		t.Errorf("title = %q, want Second", got)
	}

	// No pending temp files may survive a committed write.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "guide.xml" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want only guide.xml", names)
	}
}

func TestWriteGuideRefusesBadDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := writeGuide(context.Background(), filepath.Join(blocker, "guide.xml"), testDoc("X")); err == nil {
		t.Fatal("want error writing below a regular file, got nil")
	}
}

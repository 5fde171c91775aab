// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	xlog "github.com/gitpan/xmltv/internal/log"
	"github.com/gitpan/xmltv/internal/xmltv"
)

// countingWriter tracks how many bytes pass through to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// writeGuide writes the merged guide with full durability guarantees using
// renameio: fsync before rename, so readers never observe a partial file.
// It returns the number of bytes written.
func writeGuide(ctx context.Context, path string, doc *xmltv.TV) (int64, error) {
	logger := xlog.FromContext(ctx)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return 0, fmt.Errorf("create pending guide file: %w", err)
	}
	defer func() {
		// Cleanup is a no-op once the file has been committed.
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending guide file")
		}
	}()

	cw := &countingWriter{w: pendingFile}
	if err := xmltv.Encode(cw, doc); err != nil {
		return 0, fmt.Errorf("write guide data: %w", err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return 0, fmt.Errorf("atomically replace guide file: %w", err)
	}

	return cw.n, nil
}

package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
)

// RotatingWriter feeds log lines to a file rotator. Rolled files are gzip
// compressed.
type RotatingWriter struct {
	pipe    *io.PipeWriter
	rotator *rotator.Rotator
	done    chan struct{}
}

// NewRotatingWriter starts rotating logFile once it grows past maxSizeKB,
// keeping at most maxFiles rolled files.
func NewRotatingWriter(logFile string, maxSizeKB, maxFiles int) (*RotatingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	r, err := rotator.New(logFile, int64(maxSizeKB), false, maxFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to create file rotator: %w", err)
	}
	r.SetCompressor(gzip.NewWriter(nil), ".gz")

	pr, pw := io.Pipe()
	w := &RotatingWriter{pipe: pw, rotator: r, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		if err := r.Run(pr); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to run file rotator: %v\n", err)
		}
	}()
	return w, nil
}

func (w *RotatingWriter) Write(b []byte) (int, error) {
	return w.pipe.Write(b)
}

// Sync is a no-op; the rotator writes through.
func (w *RotatingWriter) Sync() error {
	return nil
}

// Close flushes pending lines and closes the current log file.
func (w *RotatingWriter) Close() error {
	err := w.pipe.Close()
	<-w.done
	if cerr := w.rotator.Close(); err == nil {
		err = cerr
	}
	return err
}

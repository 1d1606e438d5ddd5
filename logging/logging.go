// Package logging mirrors the daemon's log stream to stdout and a
// size-capped file, so one-shot resolves and the long-running daemon leave
// the same trail.
package logging

import (
	"io"
	"log"
	"os"
	"sync"
)

// Logs rotate at 2MB with a single .old backup; enough history for a few
// days of resolve traffic without growing unbounded.
const maxLogSize = 2 << 20

type FileWriter struct {
	mu   sync.Mutex
	file *os.File
	path string
	size int64
}

// Setup routes the standard logger to stdout plus a rotating file. The
// returned writer is closed on shutdown.
func Setup(path string) (*FileWriter, error) {
	// An oversized leftover from a previous run becomes the backup instead
	// of being thrown away.
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		os.Rename(path, path+".old")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	w := &FileWriter{file: f, path: path}
	if info, err := f.Stat(); err == nil {
		w.size = info.Size()
	}

	log.SetOutput(io.MultiWriter(os.Stdout, w))
	return w, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	w.size += int64(n)
	if w.size > maxLogSize {
		w.rotate()
	}
	return n, err
}

func (w *FileWriter) rotate() {
	w.file.Close()
	os.Rename(w.path, w.path+".old")

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return
	}
	w.file = f
	w.size = 0
}

func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// rotateMaxSizeMB keeps lumberjack's size trigger out of the way: rotation is
// driven by the daily boundary below, not by file size.
const rotateMaxSizeMB = 1024

// dailyWriter appends to a log file and rotates it at the first write past a UTC
// midnight boundary, keeping a bounded number of historical generations. The file
// handle is a process-wide singleton with one writer at a time: all writes are
// serialized by the mutex.
type dailyWriter struct {
	mu  sync.Mutex
	lj  *lumberjack.Logger
	now func() time.Time
	day string // UTC date of the last write, "" before the first write
}

func newDailyWriter(path string, maxBackups int, now func() time.Time) *dailyWriter {
	return &dailyWriter{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    rotateMaxSizeMB,
			MaxBackups: maxBackups,
		},
		now: now,
	}
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := w.now().UTC().Format("2006-01-02")
	if w.day == "" {
		w.day = day
	}
	if day != w.day {
		w.day = day
		if err := w.lj.Rotate(); err != nil {
			// Keep appending to the current generation rather than losing records.
			fmt.Fprintf(os.Stderr, "logward: rotate %s: %v\n", w.lj.Filename, err)
		}
	}

	return w.lj.Write(p)
}

func (w *dailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lj.Close()
}

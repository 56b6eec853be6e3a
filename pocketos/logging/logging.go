// Package logging builds the slog logger that writes through the platform's
// line sink.
package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Sink receives one log line at a time, without the trailing newline.
// hal.Logger satisfies it.
type Sink interface {
	WriteLineBytes(b []byte)
}

// lineWriter turns handler output into whole lines for a Sink.
type lineWriter struct {
	mu   sync.Mutex
	sink Sink
	buf  []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.sink.WriteLineBytes(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) == 0 {
		w.buf = w.buf[:0:0]
	}
	return len(p), nil
}

// New returns a text logger at level writing to sink.
func New(sink Sink, level slog.Leveler) *slog.Logger {
	h := slog.NewTextHandler(&lineWriter{sink: sink}, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

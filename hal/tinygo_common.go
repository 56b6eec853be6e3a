//go:build tinygo && baremetal

package hal

import (
	"machine"
	"runtime"
	"time"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// tinyGoStats reports heap usage. There is no CPU counter on the board.
type tinyGoStats struct {
	started time.Time
}

func newTinyGoStats() *tinyGoStats { return &tinyGoStats{started: time.Now()} }

func (s *tinyGoStats) Sample() (SystemStats, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return SystemStats{
		MemUsedBytes:  ms.HeapInuse,
		MemTotalBytes: ms.HeapSys,
		HeapBytes:     ms.HeapAlloc,
		Uptime:        time.Since(s.started),
	}, nil
}

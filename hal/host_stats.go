//go:build !tinygo

package hal

import (
	"fmt"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type hostStats struct {
	started time.Time
}

func newHostStats() *hostStats {
	// The first cpu.Percent(0) call only primes the counters.
	_, _ = cpu.Percent(0, false)
	return &hostStats{started: time.Now()}
}

func (s *hostStats) Sample() (SystemStats, error) {
	var out SystemStats
	c, err := cpu.Percent(0, false)
	if err != nil {
		return out, fmt.Errorf("cpu percent: %w", err)
	}
	if len(c) > 0 {
		out.CPUPercent = c[0]
	}
	v, err := mem.VirtualMemory()
	if err != nil {
		return out, fmt.Errorf("virtual memory: %w", err)
	}
	out.MemUsedBytes = v.Used
	out.MemTotalBytes = v.Total

	var ms goruntime.MemStats
	goruntime.ReadMemStats(&ms)
	out.HeapBytes = ms.HeapAlloc
	out.Uptime = time.Since(s.started)
	return out, nil
}

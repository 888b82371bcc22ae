// Package observability exposes process self-stats for the health
// endpoint.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats aggregates the metrics surfaced on /healthz.
type Stats struct {
	AllocMemMb    uint64  `json:"alloc_mem_mb"`
	RSSMb         uint64  `json:"rss_mb"`
	CPUPercent    float64 `json:"cpu_percent"`
	NumGC         uint32  `json:"num_gc"`
	NumGoroutines int     `json:"num_goroutines"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

type Monitor struct {
	log     *slog.Logger
	proc    *process.Process
	started time.Time
}

func NewMonitor(log *slog.Logger) *Monitor {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Error("Error while retrieving own process", "err", err)
	}
	return &Monitor{log: log, proc: proc, started: time.Now()}
}

// Snapshot gathers current stats. Failing process probes degrade to
// zero values instead of failing the health check.
func (m *Monitor) Snapshot() Stats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := Stats{
		AllocMemMb:    mem.Alloc / 1024 / 1024,
		NumGC:         mem.NumGC,
		NumGoroutines: runtime.NumGoroutine(),
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
	}
	if m.proc == nil {
		return stats
	}
	if cpu, err := m.proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	} else {
		m.log.Debug("Error while finding process cpu usage", "err", err)
	}
	if info, err := m.proc.MemoryInfo(); err == nil {
		stats.RSSMb = info.RSS / 1024 / 1024
	} else {
		m.log.Debug("Error while finding process memory usage", "err", err)
	}
	return stats
}

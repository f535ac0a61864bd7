package peer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/UTDS16/battleship/common/log"
	"github.com/UTDS16/battleship/framework/session"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Source is what the monitor samples.
type Source interface {
	Snapshot() *session.Snapshot
}

// Backlog reports how many envelopes wait to be handled.
type Backlog interface {
	Pending() int
}

// Monitor periodically samples the peer and the host it runs on.
type Monitor struct {
	source         Source
	backlog        Backlog
	logger         *log.Logger
	updateInterval time.Duration
	stopCh         chan struct{}
	latest         atomic.Pointer[LoadInfo]
}

// NewMonitor
// backlog may be nil
// updateInterval is the sampling period
func NewMonitor(source Source, backlog Backlog, logger *log.Logger, updateInterval time.Duration) *Monitor {
	if logger == nil {
		logger = log.Discard()
	}
	return &Monitor{
		source:         source,
		backlog:        backlog,
		logger:         logger.Named("monitor"),
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
	}
}

func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	m.reportLoad()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("monitor stopped")
			return
		case <-m.stopCh:
			m.logger.Debug("monitor stopped")
			return
		case <-ticker.C:
			m.reportLoad()
		}
	}
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

// Latest returns the last sample, nil before the first one.
func (m *Monitor) Latest() *LoadInfo {
	return m.latest.Load()
}

func (m *Monitor) reportLoad() {
	info := m.collectLoadInfo()
	m.latest.Store(info)
	m.logger.Debug("load=%.2f servers=%d players=%d pending=%d drop=%.2f cpu=%.2f%% mem=%.2f%%",
		info.CalculateLoad(), info.KnownServers, info.Players, info.Pending, info.DropRate(), info.CPUUsage, info.MemUsage)
}

func (m *Monitor) collectLoadInfo() *LoadInfo {
	info := &LoadInfo{
		CPUUsage: m.getCPUUsage(),
		MemUsage: m.getMemoryUsage(),
	}
	if snap := m.source.Snapshot(); snap != nil {
		info.KnownServers = len(snap.Servers)
		info.Players = len(snap.Roster)
		info.Received = snap.Stats.Received
		info.Dropped = snap.Stats.Dropped
	}
	if m.backlog != nil {
		info.Pending = m.backlog.Pending()
	}
	return info
}

// getCPUUsage is the system wide usage since the previous call.
func (m *Monitor) getCPUUsage() float64 {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		m.logger.Debug("cpu usage unavailable: %v", err)
		return 0.0
	}
	return clampPercent(percents[0])
}

func (m *Monitor) getMemoryUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		m.logger.Debug("memory usage unavailable: %v", err)
		return 0.0
	}
	return clampPercent(vm.UsedPercent)
}

func clampPercent(v float64) float64 {
	if v > 100.0 {
		return 100.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}

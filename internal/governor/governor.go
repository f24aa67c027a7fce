// Package governor gates resource-heavy pipeline work on constrained
// hosts. It is consulted before every item attempt and after every heavy
// operation; without the cleanup hook the batch accumulates memory until
// the host kills the process.
package governor

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/robcarv/news-colletector/internal/config"
	"github.com/robcarv/news-colletector/internal/ports"
)

// Snapshot is one reading of system pressure. It is never cached: load
// changes continuously, so every gating decision re-samples.
type Snapshot struct {
	MemoryUsedMB      float64
	MemoryAvailableMB float64
	MemoryPercent     float64
	CPUPercent        float64
	SwapUsedMB        float64
}

// Sampler produces resource snapshots. The gopsutil implementation lives
// in sampler.go; tests substitute a stub.
type Sampler interface {
	Sample() (Snapshot, error)
}

// Governor applies configured thresholds to fresh snapshots.
type Governor struct {
	sampler  Sampler
	memMax   float64
	cpuMax   float64
	cooldown time.Duration
	settle   time.Duration
	logger   *slog.Logger

	sleep    func(time.Duration)
	cleanups int
}

var _ ports.Governor = (*Governor)(nil)

// New builds a governor from resource config. A nil sampler gets the
// system sampler.
func New(cfg config.ResourceConfig, sampler Sampler, logger *slog.Logger) *Governor {
	if sampler == nil {
		sampler = systemSampler{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Governor{
		sampler:  sampler,
		memMax:   cfg.MemoryPercentMax,
		cpuMax:   cfg.CPUPercentMax,
		cooldown: cfg.Cooldown(),
		settle:   cfg.SettleDelay(),
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// ShouldProceed re-samples and reports whether heavy work may start. A
// sampling failure defaults to proceed: a broken monitor must not
// deadlock the pipeline.
func (g *Governor) ShouldProceed() bool {
	snap, err := g.sampler.Sample()
	if err != nil {
		g.logger.Warn("resource sampling failed, proceeding", "error", err)
		return true
	}

	if snap.MemoryPercent > g.memMax {
		g.logger.Warn("memory pressure too high",
			"memory_percent", snap.MemoryPercent,
			"threshold", g.memMax,
			"swap_used_mb", snap.SwapUsedMB)
		return false
	}

	if snap.CPUPercent > g.cpuMax {
		g.logger.Warn("cpu pressure too high",
			"cpu_percent", snap.CPUPercent,
			"threshold", g.cpuMax)
		return false
	}

	return true
}

// WaitIfNeeded blocks until thresholds clear or the context ends. Each
// failed check sleeps the full cooldown before re-sampling; it never
// spins.
func (g *Governor) WaitIfNeeded(ctx context.Context) {
	for !g.ShouldProceed() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		g.logger.Info("cooling down before retrying heavy work", "cooldown", g.cooldown)
		g.sleep(g.cooldown)
	}
}

// RecordCleanup forces release of large in-process resources after a
// heavy operation and pauses for the settle delay.
func (g *Governor) RecordCleanup() {
	g.cleanups++
	runtime.GC()
	g.logger.Debug("cleanup complete", "count", g.cleanups, "settle", g.settle)
	g.sleep(g.settle)
}

// Cleanups returns how many cleanup cycles have run this batch.
func (g *Governor) Cleanups() int { return g.cleanups }

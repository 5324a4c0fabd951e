package game

import (
	"log/slog"

	"github.com/pthm-cable/platonic/telemetry"
)

// flushTelemetry closes the stats window when it is complete.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sample collects the pool positions for the window stats.
func (g *Game) sample() telemetry.Sample {
	g.activeBuf = g.activeBuf[:0]
	g.parkedBuf = g.parkedBuf[:0]

	n := g.pool.ActiveCount()
	for i, p := range g.pool.All() {
		if i < n {
			g.activeBuf = append(g.activeBuf, p.Pos)
		} else {
			g.parkedBuf = append(g.parkedBuf, p.Pos)
		}
	}

	return telemetry.Sample{
		Active:    g.activeBuf,
		Parked:    g.parkedBuf,
		Radius:    g.pool.Radius(),
		Intensity: g.intensity,
	}
}

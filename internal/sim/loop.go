// Package sim drives the navigation engine: a tick loop that marks tick
// boundaries, and synthetic requesters that generate per-tick path load.
package sim

import (
	"log/slog"
	"time"
)

// TicksPerReport controls how often the report callback runs.
const TicksPerReport = 60

// Loop advances the simulation one tick at a time.
type Loop struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval
	Running  bool

	// Callbacks — populated during setup.
	OnTick   func(tick uint64) // Every tick
	OnReport func(tick uint64) // Every TicksPerReport ticks
}

// NewLoop creates a tick loop with default settings.
func NewLoop() *Loop {
	return &Loop{
		Speed:    1.0,
		Interval: 100 * time.Millisecond,
	}
}

// Run starts the loop. Blocks until Stop() is called.
func (l *Loop) Run() {
	l.Running = true
	slog.Info("tick loop started", "tick", l.Tick, "speed", l.Speed)

	for l.Running {
		if l.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		l.step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(l.Interval) / l.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("tick loop stopped", "tick", l.Tick)
}

// Stop halts the loop.
func (l *Loop) Stop() {
	l.Running = false
}

// step advances by one tick.
func (l *Loop) step() {
	l.Tick++

	if l.OnTick != nil {
		l.OnTick(l.Tick)
	}

	if l.Tick%TicksPerReport == 0 && l.OnReport != nil {
		l.OnReport(l.Tick)
	}
}

package utils

import (
	"log"
	"sync"
	"time"
)

// LogGate rate-limits repeated log lines, used to keep an unreachable
// backend from flooding the log with one line per request. State resets on
// process start; staleness only affects log volume, never behavior, so the
// lock is the only coordination needed.
type LogGate struct {
	interval time.Duration
	clock    func() time.Time

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewLogGate builds a gate that lets each key through at most once per
// interval. A nil clock uses wall time; tests inject their own.
func NewLogGate(interval time.Duration, clock func() time.Time) *LogGate {
	if clock == nil {
		clock = time.Now
	}
	return &LogGate{
		interval: interval,
		clock:    clock,
		lastSeen: make(map[string]time.Time),
	}
}

// Allow reports whether the key may log now, recording the attempt when it
// may.
func (g *LogGate) Allow(key string) bool {
	now := g.clock()
	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.lastSeen[key]; ok && now.Sub(last) < g.interval {
		return false
	}
	g.lastSeen[key] = now
	return true
}

// Printf logs through the gate.
func (g *LogGate) Printf(key, format string, args ...interface{}) {
	if g.Allow(key) {
		log.Printf(format, args...)
	}
}

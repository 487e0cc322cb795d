package utils

import (
	"fmt"
	"sync"
	"time"
)

// Health is the status payload exposed by the /service endpoint.
type Health struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Message string `json:"message,omitempty"`
}

type healthTracker struct {
	startTime time.Time
	current   Health
	mu        sync.RWMutex
}

var (
	defaultTracker *healthTracker
	trackerOnce    sync.Once
)

func tracker() *healthTracker {
	trackerOnce.Do(func() {
		defaultTracker = &healthTracker{
			startTime: time.Now(),
			current:   Health{Status: "STARTING", Message: "Service is initializing"},
		}
	})
	return defaultTracker
}

// GetHealth returns the current health status of the service.
func GetHealth() Health {
	t := tracker()
	t.mu.RLock()
	defer t.mu.RUnlock()
	h := t.current
	h.Uptime = t.formattedUptime()
	return h
}

// SetHealthStatus updates the health status of the service.
func SetHealthStatus(status, message string) {
	t := tracker()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.Status = status
	t.current.Message = message
}

// GetUptimeSeconds returns the uptime in seconds.
func GetUptimeSeconds() int64 {
	return int64(time.Since(tracker().startTime).Seconds())
}

func (t *healthTracker) formattedUptime() string {
	duration := time.Since(t.startTime)
	days := int(duration.Hours() / 24)
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

package monitoring

import (
	"sort"
	"strings"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	LogLevel string
}

// Service counts monitored events for the metrics endpoint
type Service struct {
	config    Config
	startedAt time.Time

	mu        sync.Mutex
	counters  map[string]int64
	lastEvent map[string]time.Time
}

// Snapshot is the state served on /v1/metrics
type Snapshot struct {
	Version   string               `json:"version"`
	StartedAt time.Time            `json:"started_at"`
	Uptime    string               `json:"uptime"`
	Events    map[string]int64     `json:"events"`
	LastEvent map[string]time.Time `json:"last_event"`
}

// NewService creates a new monitoring service
func NewService(config Config) *Service {
	return &Service{
		config:    config,
		startedAt: time.Now(),
		counters:  make(map[string]int64),
		lastEvent: make(map[string]time.Time),
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	ts := time.Now()

	s.mu.Lock()
	s.counters[eventName]++
	s.lastEvent[eventName] = ts
	s.mu.Unlock()

	if s.config.LogLevel != "warn" && s.config.LogLevel != "error" {
		nuts.L.Infof("[Monitoring] Event %s recorded with labels: %s", eventName, formatLabels(labels))
	}
}

// Count returns how often eventName was recorded
func (s *Service) Count(eventName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[eventName]
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		events[k] = v
	}
	last := make(map[string]time.Time, len(s.lastEvent))
	for k, v := range s.lastEvent {
		last[k] = v
	}

	return Snapshot{
		Version:   nuts.GetVersion(),
		StartedAt: s.startedAt,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Events:    events,
		LastEvent: last,
	}
}

// stable order keeps log lines greppable
func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, " ")
}

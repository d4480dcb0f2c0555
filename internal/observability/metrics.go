package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	startedAt     time.Time
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration time.Duration
	totalRequests int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds     int64            `json:"uptimeSeconds"`
	TotalRequests     int64            `json:"totalRequests"`
	AverageLatencyMs  float64          `json:"averageLatencyMs"`
	RequestsByRoute   map[string]int64 `json:"requestsByRoute"`
	ErrorsByRouteCode map[string]int64 `json:"errorsByRouteCode"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:    time.Now(),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalRequests++
	m.totalDuration += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds:     int64(time.Since(m.startedAt).Seconds()),
		TotalRequests:     m.totalRequests,
		RequestsByRoute:   make(map[string]int64, len(m.requestCount)),
		ErrorsByRouteCode: make(map[string]int64, len(m.errorCount)),
	}
	if m.totalRequests > 0 {
		snap.AverageLatencyMs = float64(m.totalDuration.Microseconds()) / float64(m.totalRequests) / 1000
	}
	for k, v := range m.requestCount {
		snap.RequestsByRoute[k] = v
	}
	for k, v := range m.errorCount {
		snap.ErrorsByRouteCode[k] = v
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}

package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-process counters for the account endpoints: request
// totals and cumulative latency per route, and error totals per domain
// error code.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]int64
	latency  map[string]time.Duration
	errors   map[string]int64
}

// NewMetrics initializes empty counters.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		latency:  make(map[string]time.Duration),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a completed request against its route and final
// status, and accumulates its latency.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := routeKey(method, path, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[key]++
	m.latency[method+" "+path] += duration
}

// RecordError counts a request that failed with the given domain error code.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[code]++
}

// RequestCount reports how many requests finished on the route with the
// given status.
func (m *Metrics) RequestCount(method, path string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[routeKey(method, path, status)]
}

// TotalLatency reports the accumulated latency of the route.
func (m *Metrics) TotalLatency(method, path string) time.Duration {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latency[method+" "+path]
}

// ErrorCount reports how many requests failed with the given code.
func (m *Metrics) ErrorCount(code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[code]
}

func routeKey(method, path string, status int) string {
	return method + " " + path + " " + strconv.Itoa(status)
}

package undoable

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects transition statistics. It is a Hook.
type Metrics struct {
	mu sync.RWMutex

	// Per-kind metrics
	kindMetrics map[Kind]*KindMetrics

	// Global counters
	totalTransitions uint64
	totalDuration    time.Duration
	maxPast          int
	maxFuture        int
}

// KindMetrics holds metrics for one transition kind.
type KindMetrics struct {
	Kind          Kind
	Count         uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastAction    string
	LastSeen      time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		kindMetrics: make(map[Kind]*KindMetrics),
	}
}

// Name implements Hook.
func (m *Metrics) Name() string { return "metrics" }

// OnTransition implements Hook.
func (m *Metrics) OnTransition(t Transition) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalTransitions++
	m.totalDuration += t.Duration
	m.maxPast = max(m.maxPast, t.PastLen)
	m.maxFuture = max(m.maxFuture, t.FutureLen)

	km := m.kindMetrics[t.Kind]
	if km == nil {
		km = &KindMetrics{
			Kind:        t.Kind,
			MinDuration: t.Duration,
			MaxDuration: t.Duration,
		}
		m.kindMetrics[t.Kind] = km
	}

	km.Count++
	km.TotalDuration += t.Duration
	km.LastAction = t.Action.Type
	km.LastSeen = time.Now()

	if t.Duration < km.MinDuration {
		km.MinDuration = t.Duration
	}
	if t.Duration > km.MaxDuration {
		km.MaxDuration = t.Duration
	}
}

// TotalTransitions returns the number of recorded transitions.
func (m *Metrics) TotalTransitions() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalTransitions
}

// Count returns the number of transitions of the given kind.
func (m *Metrics) Count(kind Kind) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if km := m.kindMetrics[kind]; km != nil {
		return km.Count
	}
	return 0
}

// KindStats returns metrics for a specific kind, or nil if none were recorded.
func (m *Metrics) KindStats(kind Kind) *KindMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	km := m.kindMetrics[kind]
	if km == nil {
		return nil
	}

	// Return a copy
	copy := *km
	return &copy
}

// TopKinds returns the n most frequent transition kinds.
// A negative n returns none.
func (m *Metrics) TopKinds(n int) []*KindMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kinds := make([]*KindMetrics, 0, len(m.kindMetrics))
	for _, km := range m.kindMetrics {
		copy := *km
		kinds = append(kinds, &copy)
	}

	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].Count == kinds[j].Count {
			return kinds[i].Kind < kinds[j].Kind
		}
		return kinds[i].Count > kinds[j].Count
	})

	n = min(max(n, 0), len(kinds))
	return kinds[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.kindMetrics = make(map[Kind]*KindMetrics)
	m.totalTransitions = 0
	m.totalDuration = 0
	m.maxPast = 0
	m.maxFuture = 0
}

// MetricsSnapshot is a point-in-time view of the metrics.
type MetricsSnapshot struct {
	TotalTransitions uint64
	TotalDuration    time.Duration
	AverageDuration  time.Duration
	MaxPast          int
	MaxFuture        int
	Kinds            int
	Timestamp        time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalTransitions: m.totalTransitions,
		TotalDuration:    m.totalDuration,
		MaxPast:          m.maxPast,
		MaxFuture:        m.maxFuture,
		Kinds:            len(m.kindMetrics),
		Timestamp:        time.Now(),
	}

	if m.totalTransitions > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalTransitions)
	}

	return snapshot
}

// AverageDuration returns the average duration for the kind.
func (km *KindMetrics) AverageDuration() time.Duration {
	if km.Count == 0 {
		return 0
	}
	return km.TotalDuration / time.Duration(km.Count)
}

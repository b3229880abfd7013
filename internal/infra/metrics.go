package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	framesReceived atomic.Uint64
	framesDropped  atomic.Uint64
	apiErrors      atomic.Uint64
	reissues       atomic.Uint64

	// Gauges
	feedConnected atomic.Int32 // 1 = connected, 0 = down
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordFrame records one decoded ticker frame.
func (m *Metrics) RecordFrame() {
	m.framesReceived.Add(1)
}

// RecordDroppedFrame records one inbound frame discarded as unparseable.
func (m *Metrics) RecordDroppedFrame() {
	m.framesDropped.Add(1)
}

// RecordAPIError records one failed backend call.
func (m *Metrics) RecordAPIError() {
	m.apiErrors.Add(1)
}

// RecordReissue records one token re-issue attempt.
func (m *Metrics) RecordReissue() {
	m.reissues.Add(1)
}

// SetFeedConnected sets the price feed connection gauge.
func (m *Metrics) SetFeedConnected(connected bool) {
	if connected {
		m.feedConnected.Store(1)
	} else {
		m.feedConnected.Store(0)
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	FramesReceived uint64
	FramesDropped  uint64
	APIErrors      uint64
	Reissues       uint64
	FeedConnected  bool
	Timestamp      time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		FramesReceived: m.framesReceived.Load(),
		FramesDropped:  m.framesDropped.Load(),
		APIErrors:      m.apiErrors.Load(),
		Reissues:       m.reissues.Load(),
		FeedConnected:  m.feedConnected.Load() == 1,
		Timestamp:      time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.framesReceived.Store(0)
	m.framesDropped.Store(0)
	m.apiErrors.Store(0)
	m.reissues.Store(0)
	m.feedConnected.Store(0)
}

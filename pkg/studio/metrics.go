package studio

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics collects operational counters for a Studio. They are exposed
// through expvar after RegisterExpvar, which serves them at /debug/vars
// once an HTTP server imports expvar's handler.
//
// Thread-safe for concurrent use.
type Metrics struct {
	starts        atomic.Int64
	stops         atomic.Int64
	configReloads atomic.Int64
	stateChanges  atomic.Int64
	copies        atomic.Int64
	errorsTotal   atomic.Int64
	eventsEmitted atomic.Int64

	// Latencies in nanoseconds.
	dispatchLatencyNs    atomic.Int64
	dispatchLatencyCount atomic.Int64
	loadLatencyNs        atomic.Int64
	loadLatencyCount     atomic.Int64

	currentlyRunning atomic.Int32

	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the metrics under the gradient_ prefix.
// Safe to call multiple times; subsequent calls are no-ops. expvar names
// are process global, so only one Metrics should be registered.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}

	expvar.Publish("gradient_starts_total", expvar.Func(func() any { return m.starts.Load() }))
	expvar.Publish("gradient_stops_total", expvar.Func(func() any { return m.stops.Load() }))
	expvar.Publish("gradient_config_reloads_total", expvar.Func(func() any { return m.configReloads.Load() }))
	expvar.Publish("gradient_state_changes_total", expvar.Func(func() any { return m.stateChanges.Load() }))
	expvar.Publish("gradient_copies_total", expvar.Func(func() any { return m.copies.Load() }))
	expvar.Publish("gradient_errors_total", expvar.Func(func() any { return m.errorsTotal.Load() }))
	expvar.Publish("gradient_events_emitted_total", expvar.Func(func() any { return m.eventsEmitted.Load() }))
	expvar.Publish("gradient_running", expvar.Func(func() any { return m.currentlyRunning.Load() }))
	expvar.Publish("gradient_dispatch_latency_avg_ms", expvar.Func(func() any {
		return avgMillis(m.dispatchLatencyNs.Load(), m.dispatchLatencyCount.Load())
	}))
	expvar.Publish("gradient_load_latency_avg_ms", expvar.Func(func() any {
		return avgMillis(m.loadLatencyNs.Load(), m.loadLatencyCount.Load())
	}))
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Starts        int64
	Stops         int64
	ConfigReloads int64
	StateChanges  int64
	Copies        int64
	ErrorsTotal   int64
	EventsEmitted int64

	Running bool

	DispatchLatencyAvg time.Duration
	LoadLatencyAvg     time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Starts:        m.starts.Load(),
		Stops:         m.stops.Load(),
		ConfigReloads: m.configReloads.Load(),
		StateChanges:  m.stateChanges.Load(),
		Copies:        m.copies.Load(),
		ErrorsTotal:   m.errorsTotal.Load(),
		EventsEmitted: m.eventsEmitted.Load(),

		Running: m.currentlyRunning.Load() > 0,

		DispatchLatencyAvg: safeDivide(m.dispatchLatencyNs.Load(), m.dispatchLatencyCount.Load()),
		LoadLatencyAvg:     safeDivide(m.loadLatencyNs.Load(), m.loadLatencyCount.Load()),
	}
}

func (m *Metrics) IncrementStarts()        { m.starts.Add(1) }
func (m *Metrics) IncrementStops()         { m.stops.Add(1) }
func (m *Metrics) IncrementConfigReloads() { m.configReloads.Add(1) }
func (m *Metrics) IncrementStateChanges()  { m.stateChanges.Add(1) }
func (m *Metrics) IncrementCopies()        { m.copies.Add(1) }
func (m *Metrics) IncrementErrors()        { m.errorsTotal.Add(1) }
func (m *Metrics) IncrementEventsEmitted() { m.eventsEmitted.Add(1) }

// SetRunning updates the running state gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.currentlyRunning.Store(1)
	} else {
		m.currentlyRunning.Store(0)
	}
}

// RecordDispatchLatency records how long one event took to reduce and render.
func (m *Metrics) RecordDispatchLatency(d time.Duration) {
	m.dispatchLatencyNs.Add(d.Nanoseconds())
	m.dispatchLatencyCount.Add(1)
}

// RecordLoadLatency records how long a preset took to load.
func (m *Metrics) RecordLoadLatency(d time.Duration) {
	m.loadLatencyNs.Add(d.Nanoseconds())
	m.loadLatencyCount.Add(1)
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.starts, &m.stops, &m.configReloads, &m.stateChanges, &m.copies,
		&m.errorsTotal, &m.eventsEmitted,
		&m.dispatchLatencyNs, &m.dispatchLatencyCount, &m.loadLatencyNs, &m.loadLatencyCount,
	} {
		c.Store(0)
	}
	m.currentlyRunning.Store(0)
}

func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

func avgMillis(total, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count) / 1e6
}

var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}

package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Slot allocator metrics
	SlotsActive    *prometheus.GaugeVec
	SpawnsTotal    prometheus.Counter
	RejectsTotal   *prometheus.CounterVec
	EvictionsTotal *prometheus.CounterVec

	// Flow state metrics
	TransitionsCommitted  prometheus.Counter
	TransitionsSuperseded prometheus.Counter
	EnergyLevel           *prometheus.GaugeVec

	// Classifier metrics
	ProposalsTotal *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot    MetricsSnapshot
	tierEntries map[string]int

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ActiveSlots       int64   `json:"active_slots"`
	ActiveConnections int64   `json:"active_connections"`
	TotalDuration     float64 `json:"-"` // sum of all request durations
	RequestCount      int64   `json:"-"` // count for averaging
	AvgDurationMs     float64 `json:"avg_duration_ms"`
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime:   time.Now(),
		tierEntries: make(map[string]int),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hud_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hud_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		// Slot allocator metrics
		SlotsActive: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hud_slots_active",
				Help: "Number of active entries per tier",
			},
			[]string{"tier"},
		),
		SpawnsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hud_spawns_total",
				Help: "Total number of admitted spawn requests",
			},
		),
		RejectsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hud_rejects_total",
				Help: "Total number of rejected spawn requests",
			},
			[]string{"reason"},
		),
		EvictionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hud_evictions_total",
				Help: "Total number of evicted entries",
			},
			[]string{"reason"},
		),

		// Flow state metrics
		TransitionsCommitted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hud_flow_transitions_committed_total",
				Help: "Total number of committed mode transitions",
			},
		),
		TransitionsSuperseded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hud_flow_transitions_superseded_total",
				Help: "Total number of mode transitions discarded by a newer call",
			},
		),
		EnergyLevel: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hud_energy_level",
				Help: "Simulated energy level per dimension",
			},
			[]string{"dimension"},
		),

		// Classifier metrics
		ProposalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hud_classifier_proposals_total",
				Help: "Total number of spawn proposals emitted by the classifier",
			},
			[]string{"rule"},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "hud_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "hud_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// SetSlotsActive sets the number of active entries for a tier
func (m *Metrics) SetSlotsActive(tier string, count int) {
	m.SlotsActive.WithLabelValues(tier).Set(float64(count))

	m.mu.Lock()
	m.tierEntries[tier] = count
	var total int64
	for _, n := range m.tierEntries {
		total += int64(n)
	}
	m.snapshot.ActiveSlots = total
	m.mu.Unlock()
}

// IncSpawns increments the admitted spawns counter
func (m *Metrics) IncSpawns() {
	m.SpawnsTotal.Inc()
}

// IncRejects increments the rejects counter for a reason
func (m *Metrics) IncRejects(reason string) {
	m.RejectsTotal.WithLabelValues(reason).Inc()
}

// IncEvictions increments the evictions counter for a reason
func (m *Metrics) IncEvictions(reason string) {
	m.EvictionsTotal.WithLabelValues(reason).Inc()
}

// RecordTransition records a mode transition outcome
func (m *Metrics) RecordTransition(committed bool) {
	if committed {
		m.TransitionsCommitted.Inc()
	} else {
		m.TransitionsSuperseded.Inc()
	}
}

// SetEnergy sets the simulated energy gauge for one dimension
func (m *Metrics) SetEnergy(dimension string, value float64) {
	m.EnergyLevel.WithLabelValues(dimension).Set(value)
}

// IncProposals increments the classifier proposals counter for a rule
func (m *Metrics) IncProposals(rule string) {
	m.ProposalsTotal.WithLabelValues(rule).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()

	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()

	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// GetSnapshot returns current metric values for the JSON API
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := m.snapshot
	if snap.RequestCount > 0 {
		snap.AvgDurationMs = snap.TotalDuration / float64(snap.RequestCount) * 1000
	}
	return snap
}

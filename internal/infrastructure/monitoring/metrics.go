package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Compile metrics
	Compilations    *prometheus.CounterVec
	CompileDuration *prometheus.HistogramVec
	FilesEmitted    *prometheus.CounterVec
	Issues          *prometheus.CounterVec
	StateEntries    *prometheus.CounterVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// Registry metrics
	RegistryCapsules prometheus.Gauge
	RegistryVersion  prometheus.Gauge

	// Snapshot tracks current values for summaries
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds running totals
type MetricsSnapshot struct {
	Compilations  int64
	Failed        int64
	Warnings      int64
	Errors        int64
	CacheHits     int64
	CacheMisses   int64
	TotalDuration float64 // seconds, cache hits excluded
}

// NewMetrics creates a metrics collector with its own registry, so several
// collectors can live in one process
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Compilations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capsulec_compilations_total",
				Help: "Total number of platform compilations",
			},
			[]string{"platform", "status"},
		),
		CompileDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "capsulec_compile_duration_seconds",
				Help:    "Platform compilation duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"platform"},
		),
		FilesEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capsulec_files_emitted_total",
				Help: "Total number of source files emitted",
			},
			[]string{"platform"},
		),
		Issues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capsulec_issues_total",
				Help: "Total number of compile warnings and errors",
			},
			[]string{"platform", "severity", "code"},
		),
		StateEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capsulec_compiler_state_entries_total",
				Help: "Total number of compiler state machine entries",
			},
			[]string{"platform", "state"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capsulec_cache_lookups_total",
				Help: "Result cache lookups",
			},
			[]string{"platform", "result"},
		),
		RegistryCapsules: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "capsulec_registry_capsules",
				Help: "Number of capsules in the registry",
			},
		),
		RegistryVersion: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "capsulec_registry_version",
				Help: "Current registry version",
			},
		),
	}
}

// Registry returns the prometheus registry holding these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CompileFinished records one compile result
func (m *Metrics) CompileFinished(result *types.CompilationResult, duration time.Duration) {
	platform := string(result.Platform)
	m.Compilations.WithLabelValues(platform, string(result.Status)).Inc()
	m.CompileDuration.WithLabelValues(platform).Observe(duration.Seconds())
	m.FilesEmitted.WithLabelValues(platform).Add(float64(len(result.Files)))
	for _, w := range result.Warnings {
		m.Issues.WithLabelValues(platform, string(w.Severity), string(w.Code)).Inc()
	}
	for _, e := range result.Errors {
		m.Issues.WithLabelValues(platform, string(e.Severity), string(e.Code)).Inc()
	}

	m.mu.Lock()
	m.snapshot.Compilations++
	if result.Status == types.StatusFailed {
		m.snapshot.Failed++
	}
	m.snapshot.Warnings += int64(len(result.Warnings))
	m.snapshot.Errors += int64(len(result.Errors))
	m.snapshot.TotalDuration += duration.Seconds()
	m.mu.Unlock()
}

// CacheLookup records a result cache hit or miss
func (m *Metrics) CacheLookup(platform types.Platform, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(string(platform), result).Inc()

	m.mu.Lock()
	if hit {
		m.snapshot.CacheHits++
	} else {
		m.snapshot.CacheMisses++
	}
	m.mu.Unlock()
}

// StateEntered records a compiler state transition
func (m *Metrics) StateEntered(platform types.Platform, state string) {
	m.StateEntries.WithLabelValues(string(platform), state).Inc()
}

// RegistryChanged tracks the registry size and version
func (m *Metrics) RegistryChanged(stats types.RegistryStats) {
	m.RegistryCapsules.Set(float64(stats.TotalCapsules))
	m.RegistryVersion.Set(float64(stats.Version))
}

// Snapshot returns the running totals
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

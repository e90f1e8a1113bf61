package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jakechorley/seat-allotment/pkg/core/allotment"
)

// Candidate outcome labels
const (
	OutcomeAllotted   = "allotted"
	OutcomeUnallotted = "unallotted"
	OutcomeExcluded   = "excluded"
	OutcomeDuplicate  = "duplicate"
)

// RunMetrics holds the collectors for a single allotment run.
// Each run gets its own registry so repeated runs in one process do not collide.
type RunMetrics struct {
	registry       *prometheus.Registry
	candidates     *prometheus.CounterVec
	skips          *prometheus.CounterVec
	seatsRemaining *prometheus.GaugeVec
	duration       prometheus.Histogram
}

// NewRunMetrics registers the run collectors on a fresh registry.
func NewRunMetrics() *RunMetrics {
	registry := prometheus.NewRegistry()

	candidates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allotment_candidates_total",
		Help: "Candidates processed, by outcome",
	}, []string{"outcome"})

	skips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allotment_preference_skips_total",
		Help: "Preference entries that did not yield a seat, by reason",
	}, []string{"reason"})

	seatsRemaining := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "allotment_seats_remaining",
		Help: "Seats left after the run, by seat category",
	}, []string{"category"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allotment_run_duration_seconds",
		Help:    "Duration of the allotment pass",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(candidates, skips, seatsRemaining, duration)

	return &RunMetrics{
		registry:       registry,
		candidates:     candidates,
		skips:          skips,
		seatsRemaining: seatsRemaining,
		duration:       duration,
	}
}

// Registry exposes the underlying registry as a gatherer.
func (m *RunMetrics) Registry() prometheus.Gatherer {
	return m.registry
}

// ObserveOutcome records the stats of a finished run and the seats left in the pool.
func (m *RunMetrics) ObserveOutcome(outcome *allotment.Outcome, pool *allotment.SeatPool, elapsed time.Duration) {
	if m == nil || outcome == nil {
		return
	}

	stats := outcome.Stats
	m.candidates.WithLabelValues(OutcomeAllotted).Add(float64(stats.Allotted))
	m.candidates.WithLabelValues(OutcomeUnallotted).Add(float64(stats.Unallotted))
	m.candidates.WithLabelValues(OutcomeExcluded).Add(float64(stats.Excluded))
	m.candidates.WithLabelValues(OutcomeDuplicate).Add(float64(stats.Duplicates))

	for reason, count := range stats.Skips {
		m.skips.WithLabelValues(string(reason)).Add(float64(count))
	}

	if pool != nil {
		byCategory := make(map[string]int)
		for key, remaining := range pool.Snapshot() {
			byCategory[string(key.Category)] += remaining
		}
		for category, remaining := range byCategory {
			m.seatsRemaining.WithLabelValues(category).Set(float64(remaining))
		}
	}

	m.duration.Observe(elapsed.Seconds())
}

// WriteToTextfile dumps the run metrics in the Prometheus text format,
// suitable for a node exporter textfile collector.
func (m *RunMetrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

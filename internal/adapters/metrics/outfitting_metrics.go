package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// OutfittingMetricsCollector handles build decoding, search and storage metrics
type OutfittingMetricsCollector struct {
	buildsDecoded    *prometheus.CounterVec
	buildCodeErrors  *prometheus.CounterVec
	buildUnladenMass *prometheus.HistogramVec
	buildTotalCost   *prometheus.HistogramVec

	optimizations      *prometheus.CounterVec
	optimizeIterations prometheus.Histogram
	infeasibleSlots    *prometheus.CounterVec

	buildsSaved *prometheus.CounterVec
}

// NewOutfittingMetricsCollector creates a new build metrics collector
func NewOutfittingMetricsCollector() *OutfittingMetricsCollector {
	return &OutfittingMetricsCollector{
		buildsDecoded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "decoded_total",
				Help:      "Total number of build codes decoded by ship type",
			},
			[]string{"ship_id"},
		),

		buildCodeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "code_errors_total",
				Help:      "Total number of rejected build codes by the segment at fault",
			},
			[]string{"ship_id", "segment"},
		),

		buildUnladenMass: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unladen_mass_tonnes",
				Help:      "Unladen mass distribution of decoded builds",
				Buckets:   prometheus.ExponentialBuckets(25, 2, 8),
			},
			[]string{"ship_id"},
		),

		buildTotalCost: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "total_cost_credits",
				Help:      "Total cost distribution of decoded builds",
				Buckets:   prometheus.ExponentialBuckets(10000, 4, 8),
			},
			[]string{"ship_id"},
		),

		optimizations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimizations_total",
				Help:      "Total number of lightest configuration searches by outcome",
			},
			[]string{"ship_id", "feasible"},
		),

		optimizeIterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimize_iterations",
				Help:      "Iterations the lightest configuration search needed",
				Buckets:   prometheus.LinearBuckets(1, 1, 10),
			},
		),

		infeasibleSlots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "infeasible_slots_total",
				Help:      "Slots no catalog module could satisfy during a search",
			},
			[]string{"slot"},
		),

		buildsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "saved_total",
				Help:      "Total number of builds saved by ship type",
			},
			[]string{"ship_id"},
		),
	}
}

// Register registers all build metrics with the Prometheus registry
func (c *OutfittingMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.buildsDecoded,
		c.buildCodeErrors,
		c.buildUnladenMass,
		c.buildTotalCost,
		c.optimizations,
		c.optimizeIterations,
		c.infeasibleSlots,
		c.buildsSaved,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordBuildDecoded records the figures of a decoded build
func (c *OutfittingMetricsCollector) RecordBuildDecoded(shipID string, unladenMass float64, totalCost int64) {
	c.buildsDecoded.WithLabelValues(shipID).Inc()
	c.buildUnladenMass.WithLabelValues(shipID).Observe(unladenMass)
	c.buildTotalCost.WithLabelValues(shipID).Observe(float64(totalCost))
}

// RecordBuildCodeError records a rejected build code
func (c *OutfittingMetricsCollector) RecordBuildCodeError(shipID string, segment string) {
	c.buildCodeErrors.WithLabelValues(shipID, segment).Inc()
}

// RecordOptimization records a lightest configuration search
func (c *OutfittingMetricsCollector) RecordOptimization(shipID string, iterations int, infeasible []string) {
	c.optimizations.WithLabelValues(shipID, strconv.FormatBool(len(infeasible) == 0)).Inc()
	c.optimizeIterations.Observe(float64(iterations))
	for _, slot := range infeasible {
		c.infeasibleSlots.WithLabelValues(slot).Inc()
	}
}

// RecordBuildSaved records a saved build
func (c *OutfittingMetricsCollector) RecordBuildSaved(shipID string) {
	c.buildsSaved.WithLabelValues(shipID).Inc()
}

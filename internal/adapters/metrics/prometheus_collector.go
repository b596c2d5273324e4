package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// defaultNamespace is used when InitRegistry is given none
	defaultNamespace = "outfitter"
	// Subsystem for build metrics
	subsystem = "builds"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// namespace prefixes every metric name. Set by InitRegistry.
	namespace = defaultNamespace

	// globalOutfittingCollector is the singleton build metrics collector
	// Set by SetGlobalOutfittingCollector() when metrics are enabled
	globalOutfittingCollector OutfittingMetricsRecorder
)

// OutfittingMetricsRecorder defines the interface for recording build events
// This interface is used by application code to record metrics
type OutfittingMetricsRecorder interface {
	RecordBuildDecoded(shipID string, unladenMass float64, totalCost int64)
	RecordBuildCodeError(shipID string, segment string)
	RecordOptimization(shipID string, iterations int, infeasible []string)
	RecordBuildSaved(shipID string)
}

// InitRegistry initializes the Prometheus registry with the metric namespace
// Should be called once at application startup if metrics are enabled, before any
// collector is created
func InitRegistry(ns string) {
	if ns == "" {
		ns = defaultNamespace
	}
	namespace = ns
	Registry = prometheus.NewRegistry()
}

// ResetRegistry disables metrics and drops the global collector
func ResetRegistry() {
	Registry = nil
	namespace = defaultNamespace
	globalOutfittingCollector = nil
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, for the node exporter textfile collector
func WriteTextfile(path string) error {
	if Registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// SetGlobalOutfittingCollector sets the global build metrics collector
func SetGlobalOutfittingCollector(collector OutfittingMetricsRecorder) {
	globalOutfittingCollector = collector
}

// RecordBuildDecoded records a successfully decoded build globally
func RecordBuildDecoded(shipID string, unladenMass float64, totalCost int64) {
	if globalOutfittingCollector != nil {
		globalOutfittingCollector.RecordBuildDecoded(shipID, unladenMass, totalCost)
	}
}

// RecordBuildCodeError records a rejected build code globally
func RecordBuildCodeError(shipID string, segment string) {
	if globalOutfittingCollector != nil {
		globalOutfittingCollector.RecordBuildCodeError(shipID, segment)
	}
}

// RecordOptimization records a lightest configuration search globally
func RecordOptimization(shipID string, iterations int, infeasible []string) {
	if globalOutfittingCollector != nil {
		globalOutfittingCollector.RecordOptimization(shipID, iterations, infeasible)
	}
}

// RecordBuildSaved records a saved build globally
func RecordBuildSaved(shipID string) {
	if globalOutfittingCollector != nil {
		globalOutfittingCollector.RecordBuildSaved(shipID)
	}
}

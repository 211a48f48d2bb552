package application

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ahrav/scrutineer/infrastructure/reports"
	"github.com/ahrav/scrutineer/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.ReportRegistry = (*DefaultReportRegistry)(nil)

// DefaultReportRegistry implements the ReportRegistry interface, providing
// a factory for creating report units by type name. The four built-in
// report types are pre-registered; embedders can add custom types.
type DefaultReportRegistry struct {
	// factories maps report type strings to their factory functions.
	factories map[string]ports.ReportFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultReportRegistry creates a report registry with the standard
// report types pre-registered.
func NewDefaultReportRegistry() *DefaultReportRegistry {
	registry := &DefaultReportRegistry{
		factories: make(map[string]ports.ReportFactory),
	}
	registry.registerBuiltinFactories()
	return registry
}

// registerBuiltinFactories registers the standard report types.
func (r *DefaultReportRegistry) registerBuiltinFactories() {
	r.factories[ReportTotals] = reports.CreateTotalsReport
	r.factories[ReportCombo] = reports.CreateComboReport
	r.factories[ReportMargins] = reports.CreateMarginsReport
	r.factories[ReportPerformance] = reports.CreatePerformanceReport
}

// CreateReport instantiates a configured report unit of the given type.
// Returns an error for unknown types or invalid configuration.
func (r *DefaultReportRegistry) CreateReport(reportType, id string, config map[string]any) (ports.ReportUnit, error) {
	r.mu.RLock()
	factory, ok := r.factories[reportType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown report type %q (known: %v)", reportType, r.ListReportTypes())
	}

	unit, err := factory(id, config)
	if err != nil {
		return nil, fmt.Errorf("create %s report: %w", reportType, err)
	}
	return unit, nil
}

// RegisterFactory adds a custom report type to the registry.
// Registering an already-registered type is rejected.
func (r *DefaultReportRegistry) RegisterFactory(reportType string, factory ports.ReportFactory) error {
	if reportType == "" {
		return fmt.Errorf("report type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[reportType]; exists {
		return fmt.Errorf("report type %q already registered", reportType)
	}
	r.factories[reportType] = factory
	return nil
}

// ListReportTypes returns the registered type names in sorted order.
func (r *DefaultReportRegistry) ListReportTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

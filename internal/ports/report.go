// Package ports defines the interfaces that connect the domain and
// application layers to the infrastructure adapters. These interfaces
// enable dependency inversion and make the pipeline testable without
// real files or metric backends.
package ports

import (
	"context"

	"github.com/ahrav/scrutineer/internal/domain"
)

// ReportUnit is one report generator in the pipeline. Each unit is a pure
// function over the riding set: it never mutates the ridings it receives
// and holds no state between invocations, so repeated generation over the
// same input yields identical output.
type ReportUnit interface {
	// Name returns a unique identifier for this report instance,
	// used for logging and registry lookups.
	Name() string

	// Generate derives the report's records from the full riding set.
	// The returned value is a slice of report record value objects
	// ready for serialization. Ridings lacking the data a record needs
	// (for example a margin for a single-candidate riding) are skipped,
	// never treated as errors.
	//
	// The context parameter allows for cancellation propagation; units
	// should return promptly once the context is done.
	Generate(ctx context.Context, ridings []domain.Riding) (any, error)

	// Validate checks that the unit's configuration is complete and
	// internally consistent before generation runs.
	Validate() error
}

// ReportFactory creates a report unit from a configuration map.
// The config map comes from the run configuration (flags or YAML) and is
// interpreted per report type.
type ReportFactory func(id string, config map[string]any) (ReportUnit, error)

// ReportRegistry manages the set of available report types and creates
// configured units on demand.
type ReportRegistry interface {
	// CreateReport instantiates a report unit of the given type.
	// Returns an error for unknown types or invalid configuration.
	CreateReport(reportType, id string, config map[string]any) (ReportUnit, error)

	// RegisterFactory adds a custom report type. Registration of an
	// already-registered type is rejected.
	RegisterFactory(reportType string, factory ReportFactory) error

	// ListReportTypes returns the registered type names in sorted order.
	ListReportTypes() []string
}

package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/scrutineer/internal/domain"
	"github.com/ahrav/scrutineer/internal/ports"
)

var _ ports.ReportUnit = (*MarginsReport)(nil)

// MarginsReport lists every decided riding by how close the race was:
// one VictoryMargin record per riding with at least two candidates,
// sorted ascending by margin so the closest races come first.
//
// Sorting is stable with a plain < comparator, so equal margins keep
// their riding build order and an uncomparable float can never panic
// the sort; it simply stays where the build stage put it.
type MarginsReport struct {
	// name is the unique identifier for this report instance.
	name string
	// config contains the validated configuration parameters.
	config MarginsConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// MarginsConfig controls how much of the margin ranking is emitted.
type MarginsConfig struct {
	// Limit caps the number of records emitted, keeping only the closest
	// races. 0 emits every decided riding.
	Limit int `yaml:"limit" json:"limit" validate:"min=0"`
}

// NewMarginsReport creates a MarginsReport with a validated configuration.
// Returns ErrEmptyReportName if name is empty.
func NewMarginsReport(name string, config MarginsConfig) (*MarginsReport, error) {
	if name == "" {
		return nil, ErrEmptyReportName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &MarginsReport{
		name:   name,
		config: config,
		tracer: otel.Tracer("margins-report"),
	}, nil
}

// Name returns the unique identifier for this report instance.
func (mr *MarginsReport) Name() string { return mr.name }

// Generate computes the victory margins report and returns the records as
// a []domain.VictoryMargin.
func (mr *MarginsReport) Generate(ctx context.Context, ridings []domain.Riding) (any, error) {
	_, span := mr.tracer.Start(ctx, "MarginsReport.Generate",
		trace.WithAttributes(
			attribute.String("report.type", "margins"),
			attribute.String("report.id", mr.name),
			attribute.Int("ridings.count", len(ridings)),
		),
	)
	defer span.End()

	records, err := mr.Compute(ridings)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("records.count", len(records)))
	return records, nil
}

// Compute derives one record per riding with a defined margin. Ridings
// with fewer than two candidates are excluded, never erred on; any other
// margin failure is unexpected and propagates.
func (mr *MarginsReport) Compute(ridings []domain.Riding) ([]domain.VictoryMargin, error) {
	var records []domain.VictoryMargin

	for _, riding := range ridings {
		margin, err := riding.VictoryMargin()
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientCandidates) {
				continue
			}
			return nil, fmt.Errorf("riding %q: %w", riding.Name, err)
		}

		// A defined margin implies a non-empty riding, so Winner cannot fail.
		winner, err := riding.Winner()
		if err != nil {
			return nil, fmt.Errorf("riding %q: %w", riding.Name, err)
		}

		records = append(records, domain.VictoryMargin{
			Riding: riding.Name,
			Winner: winner,
			Margin: margin,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Margin < records[j].Margin
	})

	if mr.config.Limit > 0 && len(records) > mr.config.Limit {
		records = records[:mr.config.Limit]
	}
	return records, nil
}

// Validate verifies the report configuration is internally consistent.
func (mr *MarginsReport) Validate() error {
	if err := validate.Struct(mr.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// UnmarshalParameters deserializes YAML configuration into the report's
// parameters. The configuration remains unchanged on error.
func (mr *MarginsReport) UnmarshalParameters(params yaml.Node) error {
	var config MarginsConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}

	mr.config = config
	return nil
}

// CreateMarginsReport is the factory used by the report registry to build
// a MarginsReport from a configuration map.
func CreateMarginsReport(id string, config map[string]any) (ports.ReportUnit, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	var cfg MarginsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewMarginsReport(id, cfg)
}

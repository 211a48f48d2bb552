package reports

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/scrutineer/internal/domain"
	"github.com/ahrav/scrutineer/internal/ports"
)

var _ ports.ReportUnit = (*PerformanceReport)(nil)

// PerformanceReport shows how one party performed across the country:
// one PartyResult record for every riding where the target party fielded
// a candidate, carrying the candidate's votes, their share of the riding
// total, and whether they took the seat. Records are sorted ascending by
// share, so the weakest showings come first.
type PerformanceReport struct {
	// name is the unique identifier for this report instance.
	name string
	// config contains the validated configuration parameters.
	config PerformanceConfig
	// target is the resolved party variant.
	target domain.Party
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// PerformanceConfig selects the party whose results are reported.
type PerformanceConfig struct {
	// Party is the target party label; any known alias is accepted.
	Party string `yaml:"party" json:"party" validate:"required"`
}

// NewPerformanceReport creates a PerformanceReport with validated
// configuration and a resolved party variant. Returns ErrEmptyReportName
// or ErrUnknownParty on invalid input.
func NewPerformanceReport(name string, config PerformanceConfig) (*PerformanceReport, error) {
	if name == "" {
		return nil, ErrEmptyReportName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	target, err := resolveParty(config.Party)
	if err != nil {
		return nil, err
	}

	return &PerformanceReport{
		name:   name,
		config: config,
		target: target,
		tracer: otel.Tracer("performance-report"),
	}, nil
}

// Name returns the unique identifier for this report instance.
func (pr *PerformanceReport) Name() string { return pr.name }

// Generate computes the party performance report and returns the records
// as a []domain.PartyResult.
func (pr *PerformanceReport) Generate(ctx context.Context, ridings []domain.Riding) (any, error) {
	_, span := pr.tracer.Start(ctx, "PerformanceReport.Generate",
		trace.WithAttributes(
			attribute.String("report.type", "performance"),
			attribute.String("report.id", pr.name),
			attribute.String("config.party", pr.target.String()),
			attribute.Int("ridings.count", len(ridings)),
		),
	)
	defer span.End()

	records := pr.Compute(ridings)
	span.SetAttributes(attribute.Int("records.count", len(records)))
	return records, nil
}

// Compute derives one record per riding the target party contested.
// Share is the candidate's fraction of the riding total; a riding whose
// candidates all recorded zero votes yields a zero share rather than a
// division failure. Sorting is stable, so equal shares keep riding order.
func (pr *PerformanceReport) Compute(ridings []domain.Riding) []domain.PartyResult {
	var records []domain.PartyResult

	for _, riding := range ridings {
		candidate, ok := riding.Candidates[pr.target]
		if !ok {
			continue
		}

		share := 0.0
		if total := riding.TotalVotes(); total > 0 {
			share = float64(candidate.Votes) / float64(total)
		}

		records = append(records, domain.PartyResult{
			Riding: riding.Name,
			Votes:  candidate.Votes,
			Share:  share,
			Won:    riding.WasWinner(pr.target),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Share < records[j].Share
	})
	return records
}

// Validate verifies the report configuration is internally consistent.
func (pr *PerformanceReport) Validate() error {
	if err := validate.Struct(pr.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// UnmarshalParameters deserializes YAML configuration into the report's
// parameters. The configuration remains unchanged on error.
func (pr *PerformanceReport) UnmarshalParameters(params yaml.Node) error {
	var config PerformanceConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}

	target, err := resolveParty(config.Party)
	if err != nil {
		return err
	}

	pr.config = config
	pr.target = target
	return nil
}

// CreatePerformanceReport is the factory used by the report registry to
// build a PerformanceReport from a configuration map.
func CreatePerformanceReport(id string, config map[string]any) (ports.ReportUnit, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	var cfg PerformanceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewPerformanceReport(id, cfg)
}

package reports

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/scrutineer/internal/domain"
	"github.com/ahrav/scrutineer/internal/ports"
)

var _ ports.ReportUnit = (*TotalsReport)(nil)

// TotalsReport produces the national vote and seat totals: one VoteCount
// record per party, carrying the party's accumulated votes, its share of
// all votes cast, and the number of ridings it won.
//
// Seats are awarded per riding by domain.Riding.Winner, so the report
// inherits the Party-enumeration-order tie-break. Records are emitted in
// Party enumeration order, which makes output byte-identical across runs.
//
// The unit is stateless and safe for concurrent generation.
type TotalsReport struct {
	// name is the unique identifier for this report instance.
	name string
	// config contains the validated configuration parameters.
	config TotalsConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// TotalsConfig controls which parties appear in the totals report.
type TotalsConfig struct {
	// MinVotes is the minimum accumulated vote count a party needs to be
	// included. The default of 1 omits parties that received no votes at
	// all; 0 emits a line for every enumeration variant.
	MinVotes int `yaml:"min_votes" json:"min_votes" validate:"min=0"`
}

// DefaultTotalsConfig returns a TotalsConfig that includes every party
// with at least one vote.
func DefaultTotalsConfig() TotalsConfig {
	return TotalsConfig{MinVotes: 1}
}

// NewTotalsReport creates a TotalsReport with a validated configuration.
// Returns ErrEmptyReportName if name is empty.
func NewTotalsReport(name string, config TotalsConfig) (*TotalsReport, error) {
	if name == "" {
		return nil, ErrEmptyReportName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &TotalsReport{
		name:   name,
		config: config,
		tracer: otel.Tracer("totals-report"),
	}, nil
}

// Name returns the unique identifier for this report instance.
func (tr *TotalsReport) Name() string { return tr.name }

// Generate computes the totals report for the full riding set and returns
// the records as a []domain.VoteCount.
func (tr *TotalsReport) Generate(ctx context.Context, ridings []domain.Riding) (any, error) {
	_, span := tr.tracer.Start(ctx, "TotalsReport.Generate",
		trace.WithAttributes(
			attribute.String("report.type", "totals"),
			attribute.String("report.id", tr.name),
			attribute.Int("ridings.count", len(ridings)),
		),
	)
	defer span.End()

	records := tr.Compute(ridings)
	span.SetAttributes(attribute.Int("records.count", len(records)))
	return records, nil
}

// Compute accumulates per-party votes and seats across all ridings.
// Ratio is the party's vote count divided by the votes cast for every
// party, so the emitted ratios sum to 1.0 within floating-point tolerance.
// Empty ridings contribute neither votes nor a seat.
func (tr *TotalsReport) Compute(ridings []domain.Riding) []domain.VoteCount {
	votes := make(map[domain.Party]int)
	seats := make(map[domain.Party]int)
	grandTotal := 0

	for _, riding := range ridings {
		winner, err := riding.Winner()
		if err != nil {
			continue // empty riding awards no seat
		}
		seats[winner]++

		for _, p := range riding.PartiesInOrder() {
			n := riding.Candidates[p].Votes
			votes[p] += n
			grandTotal += n
		}
	}

	var records []domain.VoteCount
	for _, p := range domain.Parties() {
		if votes[p] < tr.config.MinVotes {
			continue
		}

		ratio := 0.0
		if grandTotal > 0 {
			ratio = float64(votes[p]) / float64(grandTotal)
		}
		records = append(records, domain.VoteCount{
			Party: p,
			Votes: votes[p],
			Ratio: ratio,
			Seats: seats[p],
		})
	}
	return records
}

// Validate verifies the report configuration is internally consistent.
func (tr *TotalsReport) Validate() error {
	if err := validate.Struct(tr.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// UnmarshalParameters deserializes YAML configuration into the report's
// parameters. The configuration remains unchanged on error.
func (tr *TotalsReport) UnmarshalParameters(params yaml.Node) error {
	config := DefaultTotalsConfig()
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}

	tr.config = config
	return nil
}

// CreateTotalsReport is the factory used by the report registry to build
// a TotalsReport from a configuration map.
func CreateTotalsReport(id string, config map[string]any) (ports.ReportUnit, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	cfg := DefaultTotalsConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewTotalsReport(id, cfg)
}

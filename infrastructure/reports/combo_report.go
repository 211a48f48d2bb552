package reports

import (
	"bytes"
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/scrutineer/internal/domain"
	"github.com/ahrav/scrutineer/internal/ports"
)

var _ ports.ReportUnit = (*ComboReport)(nil)

// ComboReport answers the counterfactual question "would the primary party
// have won this riding if the ally party's votes had merged into its
// count". For every riding the primary lost, it compares primary plus ally
// votes against the actual winner and emits a ComboVictory record when the
// combination comes out ahead.
//
// Ridings missing any of the three required candidates (primary, ally,
// winner) are skipped silently; absence of a candidate is ordinary data,
// not an error. Records follow riding build order, which is sorted riding
// name order, so output is deterministic.
type ComboReport struct {
	// name is the unique identifier for this report instance.
	name string
	// config contains the validated configuration parameters.
	config ComboConfig
	// primary and ally are the resolved party variants.
	primary domain.Party
	ally    domain.Party
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// ComboConfig selects the two parties whose votes are combined.
// Labels accept any alias the party table knows (English, French,
// historical); an unrecognized label fails configuration rather than
// silently binding to the catch-all.
type ComboConfig struct {
	// Primary is the party whose losses are re-examined.
	Primary string `yaml:"primary" json:"primary" validate:"required"`

	// Ally is the party whose votes are merged into the primary's count.
	Ally string `yaml:"ally" json:"ally" validate:"required"`
}

// NewComboReport creates a ComboReport with validated configuration and
// resolved party variants. Returns ErrEmptyReportName, ErrUnknownParty,
// or ErrSameParty on invalid input.
func NewComboReport(name string, config ComboConfig) (*ComboReport, error) {
	if name == "" {
		return nil, ErrEmptyReportName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	primary, err := resolveParty(config.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}
	ally, err := resolveParty(config.Ally)
	if err != nil {
		return nil, fmt.Errorf("ally: %w", err)
	}
	if primary == ally {
		return nil, ErrSameParty
	}

	return &ComboReport{
		name:    name,
		config:  config,
		primary: primary,
		ally:    ally,
		tracer:  otel.Tracer("combo-report"),
	}, nil
}

// Name returns the unique identifier for this report instance.
func (cr *ComboReport) Name() string { return cr.name }

// Generate computes the counterfactual combination report and returns the
// records as a []domain.ComboVictory.
func (cr *ComboReport) Generate(ctx context.Context, ridings []domain.Riding) (any, error) {
	_, span := cr.tracer.Start(ctx, "ComboReport.Generate",
		trace.WithAttributes(
			attribute.String("report.type", "combo"),
			attribute.String("report.id", cr.name),
			attribute.String("config.primary", cr.primary.String()),
			attribute.String("config.ally", cr.ally.String()),
			attribute.Int("ridings.count", len(ridings)),
		),
	)
	defer span.End()

	records := cr.Compute(ridings)
	span.SetAttributes(attribute.Int("records.count", len(records)))
	return records, nil
}

// Compute scans every riding the primary party did not win and emits a
// record when primary plus ally votes strictly exceed the actual winner's
// count. The difference field is combined minus winner votes.
func (cr *ComboReport) Compute(ridings []domain.Riding) []domain.ComboVictory {
	var records []domain.ComboVictory

	for _, riding := range ridings {
		winner, err := riding.Winner()
		if err != nil || winner == cr.primary {
			continue
		}

		primaryC, ok := riding.Candidates[cr.primary]
		if !ok {
			continue
		}
		allyC, ok := riding.Candidates[cr.ally]
		if !ok {
			continue
		}
		winnerC := riding.Candidates[winner]

		combined := primaryC.Votes + allyC.Votes
		if combined <= winnerC.Votes {
			continue
		}

		records = append(records, domain.ComboVictory{
			Riding:        riding.Name,
			Winner:        winner,
			WinnerVotes:   winnerC.Votes,
			CombinedVotes: combined,
			Difference:    combined - winnerC.Votes,
		})
	}
	return records
}

// Validate verifies the report configuration is internally consistent.
func (cr *ComboReport) Validate() error {
	if err := validate.Struct(cr.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if cr.primary == cr.ally {
		return ErrSameParty
	}
	return nil
}

// UnmarshalParameters deserializes YAML configuration parameters using a
// strict decoder so configuration typos are caught instead of silently
// ignored. The unit's configuration remains unchanged on error.
func (cr *ComboReport) UnmarshalParameters(params yaml.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	if err := encoder.Encode(&params); err != nil {
		return fmt.Errorf("failed to encode YAML node: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close YAML encoder: %w", err)
	}

	decoder := yaml.NewDecoder(&buf)
	decoder.KnownFields(true)

	var config ComboConfig
	if err := decoder.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters (check for typos): %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}

	primary, err := resolveParty(config.Primary)
	if err != nil {
		return fmt.Errorf("primary: %w", err)
	}
	ally, err := resolveParty(config.Ally)
	if err != nil {
		return fmt.Errorf("ally: %w", err)
	}
	if primary == ally {
		return ErrSameParty
	}

	cr.config = config
	cr.primary = primary
	cr.ally = ally
	return nil
}

// CreateComboReport is the factory used by the report registry to build a
// ComboReport from a configuration map.
func CreateComboReport(id string, config map[string]any) (ports.ReportUnit, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	var cfg ComboConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewComboReport(id, cfg)
}

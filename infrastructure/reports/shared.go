// Package reports provides the report generator units of the scrutineer
// engine. Each unit implements ports.ReportUnit: a validated configuration,
// a pure typed computation over the riding set, and a factory for creation
// from a configuration map.
package reports

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/scrutineer/internal/domain"
)

// Common errors returned by report units.
var (
	// ErrEmptyReportName is returned when a unit is created without a name.
	ErrEmptyReportName = errors.New("report name cannot be empty")

	// ErrUnknownParty is returned when a configured party label is not
	// recognized by the alias table. Configuration is held to a stricter
	// standard than data rows: a typo here silently empties a report.
	ErrUnknownParty = errors.New("unknown party label")

	// ErrSameParty is returned when a combination report is configured
	// with the same party as both primary and ally.
	ErrSameParty = errors.New("primary and ally must be different parties")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// resolveParty binds a configured party label to its canonical variant.
// Unlike data-row parsing, an unrecognized label is an error here: the
// catch-all would make the report silently meaningless.
func resolveParty(label string) (domain.Party, error) {
	if !domain.Known(label) {
		return domain.PartyOther, fmt.Errorf("%w: %q", ErrUnknownParty, label)
	}
	return domain.ParseParty(label), nil
}

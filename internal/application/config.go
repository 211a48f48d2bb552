// Package application orchestrates the consolidation pipeline: it wires a
// row source, the fusion and riding-building stages, and a configured
// report unit into a single deterministic run.
package application

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Report type names accepted by RunConfig.Report and registered with the
// default registry.
const (
	ReportTotals      = "totals"
	ReportCombo       = "combo"
	ReportMargins     = "margins"
	ReportPerformance = "performance"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// RunConfig is the complete configuration for one pipeline run. It is
// passed explicitly into the engine; nothing in the pipeline reads
// ambient state, which keeps each report generator independently testable.
type RunConfig struct {
	// DatasetDir is the directory of per-riding CSV files to load.
	DatasetDir string `yaml:"dataset_dir" validate:"required"`

	// Report selects exactly one report type for this run.
	Report string `yaml:"report" validate:"required,oneof=totals combo margins performance"`

	// Party is the target party label for the performance report and the
	// primary party for the combo report. Any known alias is accepted.
	Party string `yaml:"party" validate:"required_if=Report combo,required_if=Report performance"`

	// Ally is the party whose votes merge into Party for the combo report.
	Ally string `yaml:"ally" validate:"required_if=Report combo"`

	// Limit caps the margins report to the N closest races; 0 means all.
	Limit int `yaml:"limit" validate:"min=0"`

	// Verbose enables debug-level diagnostics.
	Verbose bool `yaml:"verbose"`
}

// Validate checks the configuration for completeness and consistency.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("run configuration invalid: %w", err)
	}
	return nil
}

// ReportParameters returns the configuration map handed to the report
// factory for the selected report type.
func (c RunConfig) ReportParameters() map[string]any {
	params := make(map[string]any)
	switch c.Report {
	case ReportCombo:
		params["primary"] = c.Party
		params["ally"] = c.Ally
	case ReportPerformance:
		params["party"] = c.Party
	case ReportMargins:
		if c.Limit > 0 {
			params["limit"] = c.Limit
		}
	}
	return params
}

// LoadConfigFile reads a RunConfig from a YAML file using a strict decoder
// so unknown keys fail loudly instead of being silently dropped. The
// result is not validated here; callers overlay flags and env values
// first, then call Validate.
func LoadConfigFile(path string) (RunConfig, error) {
	var cfg RunConfig

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return cfg, nil
}

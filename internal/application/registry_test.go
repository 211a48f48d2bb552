package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/scrutineer/internal/domain"
	"github.com/ahrav/scrutineer/internal/ports"
)

func TestDefaultReportRegistryBuiltins(t *testing.T) {
	registry := NewDefaultReportRegistry()

	assert.Equal(t, []string{ReportCombo, ReportMargins, ReportPerformance, ReportTotals},
		registry.ListReportTypes())
}

func TestDefaultReportRegistryCreateReport(t *testing.T) {
	registry := NewDefaultReportRegistry()

	tests := []struct {
		name       string
		reportType string
		config     map[string]any
		wantErr    bool
	}{
		{name: "totals", reportType: ReportTotals, config: map[string]any{}},
		{name: "margins", reportType: ReportMargins, config: map[string]any{"limit": 5}},
		{name: "combo", reportType: ReportCombo, config: map[string]any{"primary": "Conservative", "ally": "PPC"}},
		{name: "performance", reportType: ReportPerformance, config: map[string]any{"party": "NDP"}},
		{name: "unknown type", reportType: "histogram", config: map[string]any{}, wantErr: true},
		{name: "invalid config", reportType: ReportCombo, config: map[string]any{"primary": "Conservative"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := registry.CreateReport(tt.reportType, tt.name, tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, unit.Name())
		})
	}
}

type stubReport struct{ name string }

func (s stubReport) Name() string { return s.name }
func (s stubReport) Generate(context.Context, []domain.Riding) (any, error) {
	return []string{}, nil
}
func (s stubReport) Validate() error { return nil }

func TestDefaultReportRegistryRegisterFactory(t *testing.T) {
	registry := NewDefaultReportRegistry()

	factory := func(id string, _ map[string]any) (ports.ReportUnit, error) {
		return stubReport{name: id}, nil
	}

	require.NoError(t, registry.RegisterFactory("turnout", factory))

	unit, err := registry.CreateReport("turnout", "turnout", nil)
	require.NoError(t, err)
	assert.Equal(t, "turnout", unit.Name())

	// Duplicate registration is rejected, built-ins included.
	assert.Error(t, registry.RegisterFactory("turnout", factory))
	assert.Error(t, registry.RegisterFactory(ReportTotals, factory))
	assert.Error(t, registry.RegisterFactory("", factory))
	assert.Error(t, registry.RegisterFactory("empty", nil))
}

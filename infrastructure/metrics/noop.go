package metrics

import (
	"time"

	"github.com/ahrav/scrutineer/internal/ports"
)

var _ ports.MetricsCollector = Noop{}

// Noop is a MetricsCollector that discards everything. It is the default
// for runs that do not ask for metrics and for tests.
type Noop struct{}

// RecordStageDuration implements ports.MetricsCollector.
func (Noop) RecordStageDuration(string, time.Duration) {}

// AddRowsIngested implements ports.MetricsCollector.
func (Noop) AddRowsIngested(string, int) {}

// AddRowsDropped implements ports.MetricsCollector.
func (Noop) AddRowsDropped(string, int) {}

// IncFilesRead implements ports.MetricsCollector.
func (Noop) IncFilesRead() {}

// IncFilesSkipped implements ports.MetricsCollector.
func (Noop) IncFilesSkipped() {}

// IncUnknownPartyLabel implements ports.MetricsCollector.
func (Noop) IncUnknownPartyLabel() {}

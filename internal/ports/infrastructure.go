package ports

import "time"

// MetricsCollector records operational metrics for the ingestion and
// reporting pipeline. Implementations must be safe for concurrent use;
// file ingestion calls them from multiple goroutines.
type MetricsCollector interface {
	// RecordStageDuration observes how long a pipeline stage took.
	// Stage names are load, fuse, build, and generate.
	RecordStageDuration(stage string, d time.Duration)

	// AddRowsIngested counts rows successfully parsed from a file.
	AddRowsIngested(file string, n int)

	// AddRowsDropped counts rows dropped due to parse failures in a file.
	AddRowsDropped(file string, n int)

	// IncFilesRead counts dataset files fully ingested.
	IncFilesRead()

	// IncFilesSkipped counts dataset files skipped due to open, read,
	// or header resolution failures.
	IncFilesSkipped()

	// IncUnknownPartyLabel counts rows whose affiliation label no alias
	// recognized and that were bound to the catch-all party.
	IncUnknownPartyLabel()
}

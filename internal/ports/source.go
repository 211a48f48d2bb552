package ports

import (
	"context"

	"github.com/ahrav/scrutineer/internal/domain"
)

// RowSource loads raw poll records from an external dataset.
// Implementations own all I/O concerns: file traversal, header mapping,
// and per-row recovery. Malformed rows are dropped with a diagnostic and
// never surface as errors; only a failure that prevents reading the
// dataset at all (for example a missing directory) is returned.
type RowSource interface {
	// Load reads the full dataset into memory and returns the raw polls.
	// The returned slice may be empty when every file or row was skipped;
	// the pipeline tolerates partial data by design.
	Load(ctx context.Context) ([]domain.Poll, error)
}

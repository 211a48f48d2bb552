// Package ingest reads per-riding election result CSV files into raw poll
// records. It owns every I/O concern of the pipeline: directory traversal,
// header alias resolution, per-row recovery, and ingestion metrics. The
// core never sees a file handle.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/scrutineer/internal/domain"
	"github.com/ahrav/scrutineer/internal/ports"
)

var _ ports.RowSource = (*CSVSource)(nil)

// defaultFileConcurrency bounds how many dataset files are parsed at once.
// Files are collected per goroutine and merged only after every file has
// finished, so partial per-file results never interleave into fusion.
const defaultFileConcurrency = 8

// RowError describes a single malformed row. It carries enough context to
// find the offending line and unwraps to the underlying cause.
type RowError struct {
	// File is the dataset file containing the row.
	File string

	// Line is the 1-based line number within the file.
	Line int

	// Err is the underlying parse failure.
	Err error
}

// Error implements the error interface for RowError.
func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error { return e.Err }

// CSVSource loads every CSV file in a dataset directory and implements
// ports.RowSource. Each file is one riding's poll-by-poll export; files
// are ingested in parallel and merged in directory order so the returned
// slice is deterministic for a given dataset.
//
// Error discipline follows the pipeline taxonomy: a malformed row is
// dropped with a diagnostic, an unreadable file is skipped with a
// diagnostic, and only a dataset directory that cannot be read at all is
// fatal.
type CSVSource struct {
	// dir is the dataset directory.
	dir string
	// logger receives row and file diagnostics; never report output.
	logger *slog.Logger
	// metrics counts ingested and dropped rows and files.
	metrics ports.MetricsCollector
	// concurrency bounds parallel file ingestion.
	concurrency int
}

// NewCSVSource creates a CSVSource for the given dataset directory.
// A nil logger falls back to slog.Default.
func NewCSVSource(dir string, logger *slog.Logger, metrics ports.MetricsCollector) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{
		dir:         dir,
		logger:      logger,
		metrics:     metrics,
		concurrency: defaultFileConcurrency,
	}
}

// Load reads every *.csv file under the dataset directory and returns the
// raw polls in directory order. An unreadable dataset directory is the
// only fatal condition; everything below it recovers locally.
func (s *CSVSource) Load(ctx context.Context) ([]domain.Poll, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset directory %s: %w", s.dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, entry.Name())
		}
	}

	// Collect per file, merge after the group completes. os.ReadDir
	// returns sorted entries, so the merged order is stable.
	results := make([][]domain.Poll, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range files {
		g.Go(func() error {
			path := filepath.Join(s.dir, name)
			polls, err := s.loadFile(gctx, path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.logger.Warn("skipping dataset file", "file", name, "error", err)
				s.metrics.IncFilesSkipped()
				return nil
			}
			s.metrics.IncFilesRead()
			results[i] = polls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var polls []domain.Poll
	for _, filePolls := range results {
		polls = append(polls, filePolls...)
	}
	return polls, nil
}

// loadFile parses one dataset file. Header resolution failures make the
// whole file unusable; row failures drop the row and continue.
func (s *CSVSource) loadFile(ctx context.Context, path string) ([]domain.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // row width is validated per logical field

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	var (
		polls   []domain.Poll
		dropped int
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			s.logger.Warn("dropping malformed row", "error", &RowError{File: name, Line: line, Err: err})
			continue
		}

		poll, err := s.parseRow(cols, record, name, line)
		if err != nil {
			dropped++
			s.logger.Warn("dropping malformed row", "error", err)
			continue
		}
		polls = append(polls, poll)
	}

	s.metrics.AddRowsIngested(name, len(polls))
	if dropped > 0 {
		s.metrics.AddRowsDropped(name, dropped)
	}
	return polls, nil
}

// parseRow converts one CSV record into a raw poll. An affiliation label
// the alias table does not know binds to the catch-all party with a
// diagnostic; it never drops the row, so unrecognized parties still count.
func (s *CSVSource) parseRow(cols columnMap, record []string, file string, line int) (domain.Poll, error) {
	rowErr := func(err error) (domain.Poll, error) {
		return domain.Poll{}, &RowError{File: file, Line: line, Err: err}
	}

	for _, i := range cols {
		if i >= len(record) {
			return rowErr(fmt.Errorf("row has %d fields, need at least %d", len(record), i+1))
		}
	}

	riding := strings.TrimSpace(record[cols[fieldRiding]])
	if riding == "" {
		return rowErr(errors.New("empty riding name"))
	}
	lastName := strings.TrimSpace(record[cols[fieldLastName]])
	if lastName == "" {
		return rowErr(errors.New("empty candidate last name"))
	}

	votesText := strings.TrimSpace(record[cols[fieldVotes]])
	votes, err := strconv.Atoi(votesText)
	if err != nil {
		return rowErr(fmt.Errorf("invalid vote count %q: %w", votesText, err))
	}
	if votes < 0 {
		return rowErr(fmt.Errorf("negative vote count %d", votes))
	}

	label := strings.TrimSpace(record[cols[fieldParty]])
	party := domain.ParseParty(label)
	if !domain.Known(label) {
		s.metrics.IncUnknownPartyLabel()
		if suggested, known, ok := domain.SuggestParty(label); ok {
			s.logger.Debug("unrecognized party label",
				"file", file, "line", line, "label", label,
				"closest_known", known, "closest_party", suggested.String())
		} else {
			s.logger.Debug("unrecognized party label",
				"file", file, "line", line, "label", label)
		}
	}

	return domain.Poll{
		Riding:    riding,
		Party:     party,
		LastName:  lastName,
		FirstName: strings.TrimSpace(record[cols[fieldFirstName]]),
		Votes:     votes,
	}, nil
}

// Package storage holds the CSV label store: a whole-table rewrite after
// every confirmed row, plus the optional run note that sits next to it.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/mailsift/internal/model"
)

// Store binds a table to the file it is persisted to.
type Store struct {
	table  *Table
	logger *slog.Logger
	note   *Note
	now    func() time.Time
	input  string
	output string
	runID  string
	writes  int
	dirty   bool
	resumed bool
}

// Options configures Open.
type Options struct {
	Logger   *slog.Logger
	Columns  Columns
	Input    string
	Output   string
	RunID    string
	Required []string
	// WithNote enables the <output-stem>_README.txt note.
	WithNote bool
	// Restart reads Input even when a separate Output already exists.
	Restart bool
}

// Open loads the input table. When Output is empty the input is labeled in
// place. When Output is a separate file that already exists it holds an
// earlier session's labels, so it is loaded instead of Input unless Restart
// is set.
func Open(opts Options) (*Store, error) {
	if opts.Input == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if opts.Output == "" {
		opts.Output = opts.Input
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	logger := opts.Logger.With("component", "storage")

	source := opts.Input
	resumed := false
	if !opts.Restart && !samePath(opts.Input, opts.Output) {
		_, err := os.Stat(opts.Output)
		switch {
		case err == nil:
			source, resumed = opts.Output, true
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to check output %s: %w", opts.Output, err)
		}
	}

	table, err := LoadTable(source, opts.Columns, opts.Required...)
	if err != nil {
		return nil, err
	}
	if resumed {
		logger.Info("Resuming from existing output", "path", opts.Output, "first_pending", table.FirstPending())
	}

	s := &Store{
		table:   table,
		logger:  logger,
		now:     time.Now,
		input:   source,
		output:  opts.Output,
		runID:   opts.RunID,
		resumed: resumed,
	}
	if opts.WithNote {
		s.note = &Note{Path: NotePath(opts.Output)}
	}
	return s, nil
}

// Table exposes the underlying table.
func (s *Store) Table() *Table {
	return s.table
}

// Resumed reports whether the table was loaded from an existing output file.
func (s *Store) Resumed() bool {
	return s.resumed
}

// OutputPath is where Flush writes.
func (s *Store) OutputPath() string {
	return s.output
}

// Len returns the number of rows.
func (s *Store) Len() int {
	return s.table.Len()
}

// Record returns row i.
func (s *Store) Record(i int) model.LabeledRecord {
	return s.table.Record(i)
}

// FirstPending returns the first unlabeled row.
func (s *Store) FirstPending() int {
	return s.table.FirstPending()
}

// Counts summarizes label progress.
func (s *Store) Counts() Counts {
	return s.table.Counts()
}

// SetLabel updates row i in memory. Call Flush to persist.
func (s *Store) SetLabel(i int, c model.Category) error {
	if s.table.Label(i) == string(c) {
		return nil
	}
	if err := s.table.SetLabel(i, c); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Flush rewrites the output file and the note.
func (s *Store) Flush() error {
	if err := s.table.Save(s.output); err != nil {
		return fmt.Errorf("failed to save labels: %w", err)
	}
	s.writes++
	s.dirty = false

	if s.note != nil {
		c := s.table.Counts()
		s.note.RunID = s.runID
		s.note.Output = filepath.Base(s.output)
		s.note.UpdatedAt = s.now()
		s.note.Total = c.Total
		s.note.Labeled = c.Labeled
		if err := s.note.Save(); err != nil {
			return err
		}
	}

	s.logger.Debug("labels saved", "path", s.output, "writes", s.writes)
	return nil
}

// Finish persists anything still outstanding. A run that changed nothing
// and labels in place leaves the file untouched.
func (s *Store) Finish() error {
	if s.dirty {
		return s.Flush()
	}
	if s.writes == 0 && !samePath(s.input, s.output) {
		return s.Flush()
	}
	return nil
}

// Writes reports how many times the table has been saved.
func (s *Store) Writes() int {
	return s.writes
}

func samePath(a, b string) bool {
	ca, errA := filepath.Abs(a)
	cb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ca == cb
}

// NotePath returns "<dir>/<stem>_README.txt" for an output path.
func NotePath(output string) string {
	dir := filepath.Dir(output)
	base := filepath.Base(output)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_README.txt")
}

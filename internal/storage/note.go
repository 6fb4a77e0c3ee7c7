package storage

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Note is the plain-text run summary written beside a Level-2 output.
type Note struct {
	UpdatedAt time.Time
	Path      string
	RunID     string
	Output    string
	Total     int
	Labeled   int
}

// Render formats the note body.
func (n *Note) Render() string {
	var b strings.Builder
	b.WriteString("Topic labeling progress\n")
	b.WriteString("=======================\n\n")
	fmt.Fprintf(&b, "Run ID:    %s\n", n.RunID)
	fmt.Fprintf(&b, "Updated:   %s\n", n.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Output:    %s\n", n.Output)
	fmt.Fprintf(&b, "Total:     %d\n", n.Total)
	fmt.Fprintf(&b, "Labeled:   %d\n", n.Labeled)
	fmt.Fprintf(&b, "Remaining: %d\n", n.Total-n.Labeled)
	return b.String()
}

// Save atomically rewrites the note file.
func (n *Note) Save() error {
	body := n.Render()
	if err := writeFileAtomic(n.Path, func(f *os.File) error {
		_, err := f.WriteString(body)
		return err
	}); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}
	return nil
}

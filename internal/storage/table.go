package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/mailsift/internal/common"
	"github.com/Veraticus/mailsift/internal/mailtext"
	"github.com/Veraticus/mailsift/internal/model"
)

const utf8BOM = "\ufeff"

// Columns names the fields a labeling pass reads and writes. Sender and
// Source are optional per pass: set the ones the pass requires in Required.
type Columns struct {
	Sender string `mapstructure:"sender"`
	Text   string `mapstructure:"text"`
	Label  string `mapstructure:"label"`
	Source string `mapstructure:"source"`
}

// SourceColumns is the default layout for the Level-1 pass.
func SourceColumns() Columns {
	return Columns{Sender: "from", Text: "clean_text", Label: "label_source"}
}

// TopicColumns is the default layout for the Level-2 pass.
func TopicColumns() Columns {
	return Columns{Sender: "from", Text: "clean_text", Label: "label_topic", Source: "label_source"}
}

// missingValues are the spellings of "no value" that tabular tools write.
var missingValues = map[string]bool{
	"nan":  true,
	"NaN":  true,
	"None": true,
	"null": true,
	"NULL": true,
	"<NA>": true,
}

// Table is a CSV file held in memory with every field as text.
type Table struct {
	index  map[string]int
	header []string
	rows   [][]string
	cols   Columns
	label  int
	sender int
	text   int
	source int
}

// ReadTable parses CSV from r. Required names columns that must exist; the
// label column is appended when absent.
func ReadTable(r io.Reader, cols Columns, required ...string) (*Table, error) {
	br := bufio.NewReader(r)
	if peek, err := br.Peek(len(utf8BOM)); err == nil && string(peek) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, common.ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &Table{
		cols:   cols,
		header: make([]string, len(header)),
		index:  make(map[string]int, len(header)+1),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		t.header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	for _, name := range required {
		if _, ok := t.index[name]; !ok {
			return nil, fmt.Errorf("%w: %q (have %s)", common.ErrMissingColumn, name, strings.Join(t.header, ", "))
		}
	}

	if _, ok := t.index[cols.Label]; !ok {
		t.index[cols.Label] = len(t.header)
		t.header = append(t.header, cols.Label)
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		if len(record) > len(t.header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", line, len(record), len(t.header))
		}
		row := make([]string, len(t.header))
		copy(row, record)
		t.rows = append(t.rows, row)
	}

	t.label = t.index[cols.Label]
	t.sender = t.lookup(cols.Sender)
	t.text = t.lookup(cols.Text)
	t.source = t.lookup(cols.Source)

	for _, row := range t.rows {
		row[t.label] = normalizeLabel(row[t.label])
	}

	return t, nil
}

// LoadTable reads a CSV file.
func LoadTable(path string, cols Columns, required ...string) (*Table, error) {
	f, err := os.Open(path) // #nosec G304 - path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := ReadTable(f, cols, required...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *Table) lookup(name string) int {
	if name == "" {
		return -1
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(v)
	if missingValues[v] {
		return ""
	}
	return v
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Header returns the column names in file order.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

func (t *Table) field(row []string, col int) string {
	if col < 0 {
		return ""
	}
	return row[col]
}

// Record returns row i as a labeled record.
func (t *Table) Record(i int) model.LabeledRecord {
	row := t.rows[i]
	raw := t.field(row, t.text)
	rec := model.LabeledRecord{
		Index:     i,
		Sender:    t.field(row, t.sender),
		RawText:   raw,
		CleanText: mailtext.Clean(raw),
		Label:     row[t.label],
	}
	if t.source >= 0 {
		rec.SourceLabel = strings.TrimSpace(row[t.source])
	}
	return rec
}

// Label returns the label of row i.
func (t *Table) Label(i int) string {
	return t.rows[i][t.label]
}

// SetLabel writes the label of row i.
func (t *Table) SetLabel(i int, c model.Category) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("%w: %d of %d", common.ErrRowOutOfRange, i, len(t.rows))
	}
	t.rows[i][t.label] = string(c)
	return nil
}

// FirstPending returns the index of the first row with an empty label, or
// Len when every row is labeled.
func (t *Table) FirstPending() int {
	for i, row := range t.rows {
		if row[t.label] == "" {
			return i
		}
	}
	return len(t.rows)
}

// Counts summarizes label progress.
type Counts struct {
	ByLabel map[string]int
	Total   int
	Labeled int
}

// Remaining is the number of unlabeled rows.
func (c Counts) Remaining() int {
	return c.Total - c.Labeled
}

// Counts tallies labeled rows.
func (t *Table) Counts() Counts {
	c := Counts{Total: len(t.rows), ByLabel: make(map[string]int)}
	for _, row := range t.rows {
		if l := row[t.label]; l != "" {
			c.Labeled++
			c.ByLabel[l]++
		}
	}
	return c
}

// WriteTo writes the table as canonical CSV.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(t.header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return 0, fmt.Errorf("failed to write rows: %w", err)
	}
	return buf.WriteTo(w)
}

// Save atomically rewrites path with the whole table.
func (t *Table) Save(path string) error {
	return writeFileAtomic(path, func(f *os.File) error {
		_, err := t.WriteTo(f)
		return err
	})
}

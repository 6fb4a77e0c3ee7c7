package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mailsift/internal/model"
	"github.com/Veraticus/mailsift/internal/storage"
)

// memStore is an in-memory LabelStore that snapshots labels on every flush.
type memStore struct {
	flushErr error
	records  []model.LabeledRecord
	flushed  [][]string
}

func newMemStore(labels ...string) *memStore {
	s := &memStore{}
	for i, l := range labels {
		s.records = append(s.records, model.LabeledRecord{
			Index:     i,
			Sender:    fmt.Sprintf("user%d@example.org", i),
			CleanText: "hello there",
			Label:     l,
		})
	}
	return s
}

func (s *memStore) Len() int { return len(s.records) }

func (s *memStore) Record(i int) model.LabeledRecord { return s.records[i] }

func (s *memStore) SetLabel(i int, c model.Category) error {
	s.records[i].Label = string(c)
	return nil
}

func (s *memStore) Flush() error {
	if s.flushErr != nil {
		return s.flushErr
	}
	snap := make([]string, len(s.records))
	for i, r := range s.records {
		snap[i] = r.Label
	}
	s.flushed = append(s.flushed, snap)
	return nil
}

func (s *memStore) labels() []string {
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Label
	}
	return out
}

// fixedSuggester always proposes the same category.
type fixedSuggester struct {
	taxonomy *model.Taxonomy
	category model.Category
	calls    []int
}

func (f *fixedSuggester) Taxonomy() *model.Taxonomy { return f.taxonomy }

func (f *fixedSuggester) Suggest(_ context.Context, rec model.LabeledRecord) model.Suggestion {
	f.calls = append(f.calls, rec.Index)
	return model.Suggestion{Category: f.category, Consulted: true}
}

func events() *fixedSuggester {
	return &fixedSuggester{taxonomy: model.SourceTaxonomy, category: model.SourceEvents}
}

func TestReviewEngine_AcceptsAndPersistsEachRow(t *testing.T) {
	store := newMemStore("", "", "")
	prompter := NewMockPrompter()
	e := New(store, events(), prompter, Config{RunID: "run-1"})

	stats, err := e.Run(context.Background())
	require.NoError(t, err)

	ev := string(model.SourceEvents)
	assert.Equal(t, []string{ev, ev, ev}, store.labels())
	require.Len(t, store.flushed, 3)
	assert.Equal(t, []string{ev, "", ""}, store.flushed[0])
	assert.Equal(t, []string{ev, ev, ""}, store.flushed[1])

	assert.Equal(t, "run-1", stats.RunID)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Labeled)
	assert.Equal(t, 3, stats.Visited)
	assert.Equal(t, 3, stats.Accepted)
	assert.Equal(t, 3, stats.Consulted)
	assert.Equal(t, 0, stats.Remaining())
	assert.False(t, stats.Quit)

	total, pending := prompter.Begun()
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, pending)
	finished := prompter.Finished()
	require.Len(t, finished, 1)
	assert.Equal(t, 3, finished[0].Labeled)

	calls := prompter.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, 1, calls[0].Pending.Position)
	assert.Equal(t, 3, calls[0].Pending.Remaining)
	assert.Equal(t, 1, calls[2].Pending.Remaining)
	assert.Equal(t, model.SourceTaxonomy, calls[0].Pending.Taxonomy)
}

func TestReviewEngine_ResumesAtFirstPending(t *testing.T) {
	misc := string(model.SourceMisc)
	store := newMemStore(misc, misc, "", misc, "")
	suggester := events()
	e := New(store, suggester, NewMockPrompter(), Config{})

	stats, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{2, 4}, suggester.calls)
	assert.Equal(t, 2, stats.StartIndex)
	assert.Equal(t, 2, stats.Visited)
	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, misc, store.labels()[3])
}

func TestReviewEngine_Decisions(t *testing.T) {
	ev := string(model.SourceEvents)
	tests := []struct {
		name       string
		script     []model.Decision
		wantLabels []string
		wantStats  func(t *testing.T, s model.ReviewStats)
	}{
		{
			name: "override",
			script: []model.Decision{
				{Action: model.ActionOverride, Category: model.SourcePlacement},
			},
			wantLabels: []string{string(model.SourcePlacement), ev, ev},
			wantStats: func(t *testing.T, s model.ReviewStats) {
				assert.Equal(t, 1, s.Overridden)
				assert.Equal(t, 2, s.Accepted)
			},
		},
		{
			name: "invalid override keeps suggestion",
			script: []model.Decision{
				{Action: model.ActionOverride, Category: "Not A Category"},
			},
			wantLabels: []string{ev, ev, ev},
		},
		{
			name: "skip leaves row pending",
			script: []model.Decision{
				{Action: model.ActionAccept},
				{Action: model.ActionSkip},
			},
			wantLabels: []string{ev, "", ev},
			wantStats: func(t *testing.T, s model.ReviewStats) {
				assert.Equal(t, 1, s.Skipped)
				assert.Equal(t, 2, s.Labeled)
				assert.Equal(t, 1, s.Remaining())
			},
		},
		{
			name: "quit ends the session",
			script: []model.Decision{
				{Action: model.ActionAccept},
				{Action: model.ActionQuit},
			},
			wantLabels: []string{ev, "", ""},
			wantStats: func(t *testing.T, s model.ReviewStats) {
				assert.True(t, s.Quit)
				assert.Equal(t, 1, s.Visited)
				assert.Equal(t, 1, s.Labeled)
			},
		},
		{
			name: "unrecognized input accepts with warning",
			script: []model.Decision{
				{Action: model.ActionAccept, Warning: "unrecognized input \"zzz\""},
			},
			wantLabels: []string{ev, ev, ev},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore("", "", "")
			e := New(store, events(), NewMockPrompter(tt.script...), Config{})

			stats, err := e.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabels, store.labels())
			if tt.wantStats != nil {
				tt.wantStats(t, stats)
			}
		})
	}
}

func TestReviewEngine_Limit(t *testing.T) {
	store := newMemStore("", "", "", "")
	e := New(store, events(), NewMockPrompter(), Config{Limit: 2})

	stats, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Visited)
	assert.Equal(t, 2, stats.Labeled)
	assert.Equal(t, "", store.labels()[2])
}

func TestReviewEngine_ClosureOnSuggestion(t *testing.T) {
	store := newMemStore("")
	bad := &fixedSuggester{taxonomy: model.SourceTaxonomy, category: "Whatever"}
	e := New(store, bad, NewMockPrompter(), Config{})

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{string(model.SourceMisc)}, store.labels())
}

func TestReviewEngine_FlushFailureIsFatal(t *testing.T) {
	store := newMemStore("", "")
	store.flushErr = errors.New("disk full")
	e := New(store, events(), NewMockPrompter(), Config{})

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist row 0")
}

func TestReviewEngine_Cancellation(t *testing.T) {
	store := newMemStore("", "", "")
	prompter := NewMockPrompter().FailAfter(1, context.Canceled)
	e := New(store, events(), prompter, Config{})

	stats, err := e.Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{string(model.SourceEvents), "", ""}, store.labels())
	assert.Equal(t, 1, stats.Labeled)
	assert.Len(t, prompter.Finished(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(newMemStore(""), events(), NewMockPrompter(), Config{}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReviewEngine_PrompterError(t *testing.T) {
	prompter := NewMockPrompter().FailAfter(0, errors.New("terminal closed"))
	e := New(newMemStore(""), events(), prompter, Config{})

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review of row 0 failed")
}

func TestReviewEngine_ResumptionOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emails.csv")

	var b strings.Builder
	b.WriteString("from,clean_text,label_source\n")
	for i := 0; i < 10; i++ {
		label := ""
		if i < 5 {
			label = string(model.SourceExamCell)
		}
		fmt.Fprintf(&b, "user%d@example.org,hello there,%s\n", i, label)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	store, err := storage.Open(storage.Options{Input: path, Columns: storage.SourceColumns()})
	require.NoError(t, err)

	prompter := NewMockPrompter(
		model.Decision{Action: model.ActionAccept},
		model.Decision{Action: model.ActionQuit},
	)
	_, err = New(store, events(), prompter, Config{}).Run(context.Background())
	require.NoError(t, err)

	reopened, err := storage.Open(storage.Options{Input: path, Columns: storage.SourceColumns()})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.Equal(t, string(model.SourceExamCell), reopened.Record(i).Label, "row %d", i)
	}
	assert.Equal(t, string(model.SourceEvents), reopened.Record(5).Label)
	for i := 6; i < 10; i++ {
		assert.Empty(t, reopened.Record(i).Label, "row %d", i)
	}
}

func TestAutoPrompter(t *testing.T) {
	store := newMemStore("", "")
	e := New(store, events(), NewAutoPrompter(nil), Config{})

	stats, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, []string{string(model.SourceEvents), string(model.SourceEvents)}, store.labels())
}

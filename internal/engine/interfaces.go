package engine

import (
	"context"

	"github.com/Veraticus/mailsift/internal/model"
)

// LabelStore is the table a review session edits. Flush must persist every
// label set so far before returning.
type LabelStore interface {
	Len() int
	Record(i int) model.LabeledRecord
	SetLabel(i int, c model.Category) error
	Flush() error
}

// Suggester computes the candidate label for one row. It never fails:
// degraded sources fall back to the catch-all.
type Suggester interface {
	Suggest(ctx context.Context, rec model.LabeledRecord) model.Suggestion
	Taxonomy() *model.Taxonomy
}

// Prompter defines the contract for reviewer interaction during labeling.
type Prompter interface {
	Begin(total, pending int)
	Review(ctx context.Context, pending model.Pending) (model.Decision, error)
	Finish(stats model.ReviewStats)
}

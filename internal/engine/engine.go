// Package engine drives labeling sessions: it computes a suggestion for each
// pending row, hands it to the reviewer and persists every confirmed label
// before moving on.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/mailsift/internal/model"
)

// Config holds configuration options for a review session.
type Config struct {
	Logger *slog.Logger
	RunID  string
	// Limit caps the rows visited in one session. Zero means no limit.
	Limit int
}

// ReviewEngine orchestrates one labeling session over a store.
type ReviewEngine struct {
	store     LabelStore
	suggester Suggester
	prompter  Prompter
	logger    *slog.Logger
	now       func() time.Time
	runID     string
	limit     int
}

// New creates a review engine with the given dependencies.
func New(store LabelStore, suggester Suggester, prompter Prompter, cfg Config) *ReviewEngine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	return &ReviewEngine{
		store:     store,
		suggester: suggester,
		prompter:  prompter,
		logger:    cfg.Logger.With("component", "review", "run_id", cfg.RunID),
		now:       time.Now,
		runID:     cfg.RunID,
		limit:     cfg.Limit,
	}
}

// RunID identifies this session.
func (e *ReviewEngine) RunID() string {
	return e.runID
}

// Run walks the pending rows in order. A quit decision ends the session
// normally; a canceled context ends it with the context's error. Either way
// every row confirmed so far is already persisted. A persistence failure
// aborts the session.
func (e *ReviewEngine) Run(ctx context.Context) (stats model.ReviewStats, err error) {
	total := e.store.Len()
	start, pending := e.scan()

	stats = model.ReviewStats{
		RunID:      e.runID,
		StartedAt:  e.now(),
		StartIndex: start,
		Total:      total,
	}

	e.logger.Info("Starting review session",
		"total", total,
		"pending", pending,
		"start_index", start)

	e.prompter.Begin(total, pending)
	defer func() {
		stats.Duration = e.now().Sub(stats.StartedAt)
		_, remaining := e.scan()
		stats.Labeled = total - remaining
		e.prompter.Finish(stats)
	}()

	taxonomy := e.suggester.Taxonomy()
	position := 0

	for i := start; i < total; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, ctxErr
		}

		rec := e.store.Record(i)
		if !rec.Pending() {
			continue
		}
		if e.limit > 0 && stats.Visited >= e.limit {
			e.logger.Info("Row limit reached", "limit", e.limit)
			break
		}

		suggestion := e.suggester.Suggest(ctx, rec)
		if suggestion.Consulted {
			stats.Consulted++
		}

		position++
		decision, reviewErr := e.prompter.Review(ctx, model.Pending{
			Taxonomy:   taxonomy,
			Suggestion: suggestion,
			Record:     rec,
			Position:   position,
			Remaining:  pending - position + 1,
		})
		if reviewErr != nil {
			if errors.Is(reviewErr, context.Canceled) || errors.Is(reviewErr, context.DeadlineExceeded) {
				return stats, reviewErr
			}
			return stats, fmt.Errorf("review of row %d failed: %w", i, reviewErr)
		}
		if decision.Action == model.ActionQuit {
			stats.Quit = true
			e.logger.Info("Reviewer quit", "row", i)
			return stats, nil
		}
		stats.Visited++

		var label model.Category
		switch decision.Action {
		case model.ActionSkip:
			stats.Skipped++
			e.logger.Debug("Row skipped", "row", i)
			continue
		case model.ActionOverride:
			label = decision.Category
			if !taxonomy.Contains(label) {
				e.logger.Warn("Override is not a category, keeping suggestion",
					"row", i,
					"override", label,
					"suggestion", suggestion.Category)
				label = suggestion.Category
			}
			stats.Overridden++
		default:
			label = suggestion.Category
			stats.Accepted++
		}
		if decision.Warning != "" {
			e.logger.Warn("Unrecognized reviewer input", "row", i, "warning", decision.Warning)
		}

		label = taxonomy.Normalize(label)
		if setErr := e.store.SetLabel(i, label); setErr != nil {
			return stats, fmt.Errorf("failed to set label for row %d: %w", i, setErr)
		}
		if flushErr := e.store.Flush(); flushErr != nil {
			return stats, fmt.Errorf("failed to persist row %d: %w", i, flushErr)
		}

		e.logger.Debug("Row confirmed",
			"row", i,
			"label", label,
			"action", decision.Action,
			"post_reason", suggestion.PostReason)
	}

	e.logger.Info("Review session complete",
		"visited", stats.Visited,
		"accepted", stats.Accepted,
		"overridden", stats.Overridden,
		"skipped", stats.Skipped)
	return stats, nil
}

// scan returns the first pending index and the number of pending rows.
func (e *ReviewEngine) scan() (first, pending int) {
	n := e.store.Len()
	first = n
	for i := 0; i < n; i++ {
		if e.store.Record(i).Pending() {
			if first == n {
				first = i
			}
			pending++
		}
	}
	return first, pending
}

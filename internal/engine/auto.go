package engine

import (
	"context"
	"log/slog"

	"github.com/Veraticus/mailsift/internal/model"
)

// AutoPrompter accepts every suggestion without asking.
type AutoPrompter struct {
	logger *slog.Logger
}

// NewAutoPrompter creates a prompter for unattended runs.
func NewAutoPrompter(logger *slog.Logger) *AutoPrompter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoPrompter{logger: logger.With("component", "auto_prompter")}
}

// Begin implements Prompter.
func (a *AutoPrompter) Begin(total, pending int) {
	a.logger.Info("Auto-labeling", "total", total, "pending", pending)
}

// Review implements Prompter.
func (a *AutoPrompter) Review(ctx context.Context, _ model.Pending) (model.Decision, error) {
	if err := ctx.Err(); err != nil {
		return model.Decision{}, err
	}
	return model.Decision{Action: model.ActionAccept}, nil
}

// Finish implements Prompter.
func (a *AutoPrompter) Finish(stats model.ReviewStats) {
	a.logger.Info("Auto-labeling finished",
		"labeled", stats.Labeled,
		"remaining", stats.Remaining(),
		"duration", stats.Duration)
}

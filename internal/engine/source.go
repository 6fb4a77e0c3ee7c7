package engine

import (
	"context"
	"log/slog"

	"github.com/Veraticus/mailsift/internal/llm"
	"github.com/Veraticus/mailsift/internal/model"
	"github.com/Veraticus/mailsift/internal/rules"
)

// SourceLabeler is the Level-1 pipeline: pre-rules, then the suggestion
// source unless a verdict is final, then category extraction and post-rules.
type SourceLabeler struct {
	rules  *rules.Engine
	source llm.Source
	logger *slog.Logger
}

// NewSourceLabeler wires a rule engine to a suggestion source. A nil source
// runs rules only.
func NewSourceLabeler(r *rules.Engine, source llm.Source, logger *slog.Logger) *SourceLabeler {
	if source == nil {
		source = llm.Null{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceLabeler{
		rules:  r,
		source: source,
		logger: logger.With("component", "source_labeler"),
	}
}

// Taxonomy returns the Level-1 category set.
func (l *SourceLabeler) Taxonomy() *model.Taxonomy {
	return l.rules.Taxonomy()
}

// Rules returns the rule engine behind the labeler.
func (l *SourceLabeler) Rules() *rules.Engine {
	return l.rules
}

// Suggest computes the Level-1 suggestion for a row.
func (l *SourceLabeler) Suggest(ctx context.Context, rec model.LabeledRecord) model.Suggestion {
	t := l.rules.Taxonomy()
	in := rules.NewInput(rec.Sender, rec.CleanText)
	v := l.rules.Pre(in)

	s := model.Suggestion{Verdict: v}
	if v.Final() {
		s.Category, s.PostReason = l.rules.Resolve(in, v, v.Category)
		return s
	}

	proposed := t.CatchAll()
	if llm.Enabled(l.source) {
		s.Consulted = true
		raw, err := l.source.Propose(ctx, model.SuggestionRequest{
			Kind:       model.PromptSource,
			Sender:     rec.Sender,
			Content:    in.Text,
			Categories: t.Names(),
		})
		if err != nil {
			l.logger.Warn("suggestion source failed, using catch-all",
				"row", rec.Index,
				"source", l.source.Name(),
				"error", err)
			s.ModelError = err.Error()
		} else {
			s.ModelRaw = raw
			proposed = llm.ExtractCategory(raw, t)
			s.ModelCategory = proposed
		}
	}

	s.Category, s.PostReason = l.rules.Resolve(in, v, proposed)
	return s
}

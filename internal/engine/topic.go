package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/mailsift/internal/llm"
	"github.com/Veraticus/mailsift/internal/model"
	"github.com/Veraticus/mailsift/internal/topic"
)

// TopicMode selects how TopicLabeler picks a topic.
type TopicMode string

// Topic modes.
const (
	// TopicModeScore uses the keyword/bias composer. A model answer, when
	// a source is configured, is only used if the composer found nothing.
	TopicModeScore TopicMode = "score"
	// TopicModeMarkers asks the model for obligation markers and decides
	// from those.
	TopicModeMarkers TopicMode = "markers"
)

// ParseTopicMode validates a mode name.
func ParseTopicMode(s string) (TopicMode, error) {
	switch TopicMode(s) {
	case "", TopicModeScore:
		return TopicModeScore, nil
	case TopicModeMarkers:
		return TopicModeMarkers, nil
	default:
		return "", fmt.Errorf("unknown topic mode %q (want %s or %s)", s, TopicModeScore, TopicModeMarkers)
	}
}

// TopicLabeler is the Level-2 pipeline.
type TopicLabeler struct {
	composer *topic.Composer
	source   llm.Source
	logger   *slog.Logger
	mode     TopicMode
}

// NewTopicLabeler builds a Level-2 pipeline. Markers mode needs an enabled
// source.
func NewTopicLabeler(composer *topic.Composer, source llm.Source, mode TopicMode, logger *slog.Logger) (*TopicLabeler, error) {
	if composer == nil {
		composer = topic.Default()
	}
	if source == nil {
		source = llm.Null{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if mode == TopicModeMarkers && !llm.Enabled(source) {
		return nil, fmt.Errorf("topic mode %q requires a suggestion provider", mode)
	}
	return &TopicLabeler{
		composer: composer,
		source:   source,
		mode:     mode,
		logger:   logger.With("component", "topic_labeler", "mode", string(mode)),
	}, nil
}

// Taxonomy returns the Level-2 category set.
func (l *TopicLabeler) Taxonomy() *model.Taxonomy {
	return l.composer.Taxonomy()
}

// Suggest computes the Level-2 suggestion for a row.
func (l *TopicLabeler) Suggest(ctx context.Context, rec model.LabeledRecord) model.Suggestion {
	res := l.composer.Compose(rec.CleanText, rec.SourceLabel)
	s := model.Suggestion{
		Category: res.Category,
		Scores:   res.Scores,
	}

	if l.mode == TopicModeMarkers {
		l.suggestFromMarkers(ctx, rec, &s)
		return s
	}

	if !llm.Enabled(l.source) {
		return s
	}

	raw, ok := l.propose(ctx, rec, model.PromptTopic, &s)
	if !ok {
		return s
	}
	t := l.composer.Taxonomy()
	s.ModelCategory = llm.ExtractCategory(raw, t)
	_, s.ModelReason = llm.ParseChosen(raw)
	if res.Score == 0 {
		s.Category = s.ModelCategory
	}
	return s
}

func (l *TopicLabeler) suggestFromMarkers(ctx context.Context, rec model.LabeledRecord, s *model.Suggestion) {
	raw, _ := l.propose(ctx, rec, model.PromptMarkers, s)
	m := topic.ParseMarkers(raw)
	cat, step := topic.Decide(m, rec.SourceLabel)
	if m.Parsed == 0 {
		cat, step = l.composer.Taxonomy().CatchAll(), "no_markers"
	}
	s.Markers = m.Fields()
	s.ModelCategory = cat
	s.ModelReason = step
	s.Category = l.composer.Taxonomy().Normalize(cat)
}

func (l *TopicLabeler) propose(ctx context.Context, rec model.LabeledRecord, kind model.PromptKind, s *model.Suggestion) (string, bool) {
	s.Consulted = true
	raw, err := l.source.Propose(ctx, model.SuggestionRequest{
		Kind:        kind,
		Sender:      rec.Sender,
		Content:     rec.CleanText,
		SourceLabel: rec.SourceLabel,
		Categories:  l.composer.Taxonomy().Names(),
	})
	if err != nil {
		l.logger.Warn("suggestion source failed",
			"row", rec.Index,
			"source", l.source.Name(),
			"error", err)
		s.ModelError = err.Error()
		return "", false
	}
	s.ModelRaw = raw
	return raw, true
}

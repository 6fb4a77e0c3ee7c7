package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mailsift/internal/llm"
	"github.com/Veraticus/mailsift/internal/model"
	"github.com/Veraticus/mailsift/internal/rules"
	"github.com/Veraticus/mailsift/internal/topic"
)

func sourceRules() *rules.Engine {
	return rules.New(nil, model.SourceTaxonomy, rules.SourcePolicy(), nil)
}

func record(sender, text string) model.LabeledRecord {
	return model.LabeledRecord{Sender: sender, RawText: text, CleanText: text}
}

func TestSourceLabeler_TrustedProviderSkipsSource(t *testing.T) {
	src := NewMockSource("Misc")
	l := NewSourceLabeler(sourceRules(), src, nil)

	s := l.Suggest(context.Background(), record("NPTEL <noreply@nptel.iitm.ac.in>", "Week 3 assignment is live"))

	assert.Equal(t, model.SourceExternalCourses, s.Category)
	assert.Equal(t, model.ReasonTrustedProvider, s.Verdict.Reason)
	assert.Equal(t, model.PostSkippedHighVerdict, s.PostReason)
	assert.False(t, s.Consulted)
	assert.Empty(t, src.Calls())
}

func TestSourceLabeler_UsesModelCategory(t *testing.T) {
	src := NewMockSource("I think this is Events / Hackathons / Clubs.")
	l := NewSourceLabeler(sourceRules(), src, nil)

	s := l.Suggest(context.Background(), record("club@example.org", "Team registration opens tomorrow"))

	assert.True(t, s.Consulted)
	assert.Equal(t, model.SourceEvents, s.ModelCategory)
	assert.Equal(t, model.SourceEvents, s.Category)
	assert.Equal(t, model.PostPassthrough, s.PostReason)

	calls := src.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, model.PromptSource, calls[0].Kind)
	assert.Equal(t, model.SourceTaxonomy.Names(), calls[0].Categories)
	assert.Equal(t, "club@example.org", calls[0].Sender)
}

func TestSourceLabeler_Degradation(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		err       error
		wantError bool
	}{
		{name: "source unavailable", err: fmt.Errorf("%w: circuit open", llm.ErrUnavailable), wantError: true},
		{name: "unrecognized answer", response: "banana"},
		{name: "empty answer", response: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewMockSource(tt.response)
			src.Err = tt.err
			l := NewSourceLabeler(sourceRules(), src, nil)

			s := l.Suggest(context.Background(), record("someone@example.org", "hello there"))

			assert.Equal(t, model.SourceMisc, s.Category)
			assert.True(t, s.Consulted)
			if tt.wantError {
				assert.NotEmpty(t, s.ModelError)
			} else {
				assert.Empty(t, s.ModelError)
			}
		})
	}
}

func TestSourceLabeler_RulesOnlyKeywordRescue(t *testing.T) {
	r := rules.New(nil, model.AcademicTaxonomy, rules.DefaultPolicy(), nil)
	l := NewSourceLabeler(r, nil, nil)

	s := l.Suggest(context.Background(), record("prof@example.org", "Submit your assignment by Friday"))

	assert.False(t, s.Consulted)
	assert.Equal(t, model.AcademicAssignment, s.Category)
	assert.Equal(t, model.PostKeywordRescue, s.PostReason)
	assert.Equal(t, model.AcademicTaxonomy, l.Taxonomy())
}

func TestParseTopicMode(t *testing.T) {
	mode, err := ParseTopicMode("")
	require.NoError(t, err)
	assert.Equal(t, TopicModeScore, mode)

	mode, err = ParseTopicMode("markers")
	require.NoError(t, err)
	assert.Equal(t, TopicModeMarkers, mode)

	_, err = ParseTopicMode("vibes")
	require.Error(t, err)
}

func TestTopicLabeler_Score(t *testing.T) {
	l, err := NewTopicLabeler(nil, nil, TopicModeScore, nil)
	require.NoError(t, err)

	rec := record("exam@charusat.ac.in", "Hall ticket for the exam is available")
	rec.SourceLabel = string(model.SourceExamCell)
	s := l.Suggest(context.Background(), rec)

	assert.Equal(t, model.TopicExam, s.Category)
	assert.False(t, s.Consulted)
	require.NotEmpty(t, s.Scores)
	assert.Equal(t, model.TopicTimetable, s.Scores[0].Category)
	assert.InDelta(t, 0.2, s.Scores[0].Score, 1e-9)
	assert.Equal(t, model.TopicExam, s.Scores[1].Category)
	assert.InDelta(t, 2.5, s.Scores[1].Score, 1e-9)
}

func TestTopicLabeler_ScoreWithModel(t *testing.T) {
	answer := "Chosen label: Events / Hackathons\nReason: club meetup"

	t.Run("model decides when composer has no signal", func(t *testing.T) {
		l, err := NewTopicLabeler(topic.Default(), NewMockSource(answer), TopicModeScore, nil)
		require.NoError(t, err)

		rec := record("x@example.org", "hello world")
		rec.SourceLabel = string(model.SourceMisc)
		s := l.Suggest(context.Background(), rec)

		assert.True(t, s.Consulted)
		assert.Equal(t, model.TopicEvents, s.Category)
		assert.Equal(t, model.TopicEvents, s.ModelCategory)
		assert.Equal(t, "club meetup", s.ModelReason)
	})

	t.Run("composer wins when it scored", func(t *testing.T) {
		src := NewMockSource(answer)
		l, err := NewTopicLabeler(topic.Default(), src, TopicModeScore, nil)
		require.NoError(t, err)

		rec := record("x@example.org", "exam tomorrow")
		rec.SourceLabel = string(model.SourceMisc)
		s := l.Suggest(context.Background(), rec)

		assert.Equal(t, model.TopicExam, s.Category)
		assert.Equal(t, model.TopicEvents, s.ModelCategory)
		calls := src.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, model.PromptTopic, calls[0].Kind)
		assert.Equal(t, string(model.SourceMisc), calls[0].SourceLabel)
	})
}

func TestTopicLabeler_Markers(t *testing.T) {
	_, err := NewTopicLabeler(nil, nil, TopicModeMarkers, nil)
	require.Error(t, err)

	answer := "1. Required action: yes\n2. Action verb: submit\n3. Consequence: penalty\n"
	l, err := NewTopicLabeler(nil, NewMockSource(answer), TopicModeMarkers, nil)
	require.NoError(t, err)

	rec := record("prof@charusat.ac.in", "Please hand in the report")
	rec.SourceLabel = string(model.SourceProject)
	s := l.Suggest(context.Background(), rec)

	assert.Equal(t, model.TopicAssignment, s.Category)
	assert.Equal(t, "submit", s.ModelReason)
	assert.Equal(t, "submit", s.Markers["action_verb"])
	assert.Equal(t, "true", s.Markers["required_action"])
}

func TestTopicLabeler_MarkersSourceFailure(t *testing.T) {
	src := NewMockSource("")
	src.Err = llm.ErrUnavailable
	l, err := NewTopicLabeler(nil, src, TopicModeMarkers, nil)
	require.NoError(t, err)

	s := l.Suggest(context.Background(), record("x@example.org", "Exam hall ticket"))

	assert.Equal(t, model.TopicGeneral, s.Category)
	assert.Equal(t, "no_markers", s.ModelReason)
	assert.Nil(t, s.Markers)
	assert.NotEmpty(t, s.ModelError)
}

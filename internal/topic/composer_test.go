package topic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mailsift/internal/model"
)

func TestComposer_Compose(t *testing.T) {
	c := Default()

	tests := []struct {
		name      string
		text      string
		source    string
		want      model.Category
		wantScore float64
	}{
		{
			name:      "keywords add up",
			text:      "Submit the assignment by Friday",
			want:      model.TopicAssignment,
			wantScore: 2,
		},
		{
			name:      "tie goes to the earlier topic",
			text:      "exam schedule",
			want:      model.TopicTimetable,
			wantScore: 1,
		},
		{
			name:      "bias breaks the tie",
			text:      "exam schedule",
			source:    string(model.SourceExamCell),
			want:      model.TopicExam,
			wantScore: 1.5,
		},
		{
			name:      "bias alone",
			text:      "",
			source:    "External Course Provider",
			want:      model.TopicCertification,
			wantScore: 0.6,
		},
		{
			name:      "bias key is case insensitive",
			text:      "hello",
			source:    "  external course provider ",
			want:      model.TopicCertification,
			wantScore: 0.6,
		},
		{
			name:      "distinct keywords only",
			text:      "exam exam exam",
			want:      model.TopicExam,
			wantScore: 1,
		},
		{
			name:      "regex keyword",
			text:      "Mid-sem results are out",
			want:      model.TopicExam,
			wantScore: 1,
		},
		{
			name:      "plain keywords are substrings",
			text:      "New jobs posted",
			want:      model.TopicPlacement,
			wantScore: 1,
		},
		{
			name:      "nothing scores",
			text:      "hello world",
			source:    "Misc",
			want:      model.TopicGeneral,
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Compose(tt.text, tt.source)
			assert.Equal(t, tt.want, got.Category)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
		})
	}
}

func TestComposer_ScoresTrail(t *testing.T) {
	got := Default().Compose("Submit the assignment, exam next week", string(model.SourceExamCell))

	require.Len(t, got.Scores, 3)
	assert.Equal(t, model.TopicTimetable, got.Scores[0].Category)
	assert.InDelta(t, 0.2, got.Scores[0].Bias, 1e-9)
	assert.Empty(t, got.Scores[0].Keywords)

	assert.Equal(t, model.TopicExam, got.Scores[1].Category)
	assert.Equal(t, []string{"exam"}, got.Scores[1].Keywords)
	assert.InDelta(t, 1.5, got.Scores[1].Score, 1e-9)

	assert.Equal(t, model.TopicAssignment, got.Scores[2].Category)
	assert.Equal(t, []string{"submit", "assignment"}, got.Scores[2].Keywords)

	assert.Equal(t, model.TopicAssignment, got.Category)
}

func TestComposer_TieBreakIsStable(t *testing.T) {
	c := Default()
	first := c.Compose("workshop fees", "")
	assert.Equal(t, model.TopicEvents, first.Category)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.Compose("workshop fees", ""))
	}
}

func TestNewComposer_Validation(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		keywords map[model.Category][]Keyword
		bias     BiasTable
	}{
		{
			name:     "keyword category outside taxonomy",
			keywords: map[model.Category][]Keyword{"Nope": {{Text: "x"}}},
			errMsg:   "not in taxonomy",
		},
		{
			name:   "bias category outside taxonomy",
			bias:   BiasTable{"Administrative": {"Nope": 0.5}},
			errMsg: "not in taxonomy",
		},
		{
			name:     "bad regex",
			keywords: map[model.Category][]Keyword{model.TopicExam: {{Text: "(", Regex: true}}},
			errMsg:   "failed to compile keyword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewComposer(model.TopicTaxonomy, tt.keywords, tt.bias)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewComposer_Empty(t *testing.T) {
	c, err := NewComposer(model.TopicTaxonomy, nil, nil)
	require.NoError(t, err)
	got := c.Compose("exam", "")
	assert.Equal(t, model.TopicGeneral, got.Category)
	assert.Zero(t, got.Score)
}

func TestComposer_ConcurrentCompose(t *testing.T) {
	c := Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, model.TopicAssignment, c.Compose("submit assignment", "").Category)
			}
		}()
	}
	wg.Wait()
}

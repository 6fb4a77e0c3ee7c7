package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mailsift/internal/model"
)

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		taxonomy *model.Taxonomy
		want     model.Category
	}{
		{name: "exact", raw: "Exam", taxonomy: model.AcademicTaxonomy, want: model.AcademicExam},
		{name: "exact with whitespace", raw: "  Lecture\n", taxonomy: model.AcademicTaxonomy, want: model.AcademicLecture},
		{name: "prose around label", raw: "I think this is an Event.", taxonomy: model.AcademicTaxonomy, want: model.AcademicEvent},
		{name: "case insensitive", raw: "category: administrative", taxonomy: model.AcademicTaxonomy, want: model.AcademicAdministrative},
		{name: "first in taxonomy order wins", raw: "Exam or Assignment", taxonomy: model.AcademicTaxonomy, want: model.AcademicAssignment},
		{name: "whole word only", raw: "Tests and Examinations", taxonomy: model.AcademicTaxonomy, want: model.AcademicMisc},
		{name: "nothing recognizable", raw: "Sorry, I cannot help with that.", taxonomy: model.AcademicTaxonomy, want: model.AcademicMisc},
		{name: "empty", raw: "", taxonomy: model.SourceTaxonomy, want: model.SourceMisc},
		{name: "source names with slashes", raw: "This is from the Exam Cell / Academic Office", taxonomy: model.SourceTaxonomy, want: model.SourceExamCell},
		{
			name:     "chosen label line",
			raw:      "Chosen label: Exam Notifications\nReason: students must check the Timetable / Schedule Update",
			taxonomy: model.TopicTaxonomy,
			want:     model.TopicExam,
		},
		{
			name:     "numbered chosen label",
			raw:      "Chosen label: 3. Assignment or Submission",
			taxonomy: model.TopicTaxonomy,
			want:     model.TopicAssignment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCategory(tt.raw, tt.taxonomy)
			assert.Equal(t, tt.want, got)
			assert.True(t, tt.taxonomy.Contains(got))
		})
	}
}

func TestParseChosen(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantLabel  string
		wantReason string
	}{
		{
			name:       "both lines",
			raw:        "Chosen label: Events / Hackathons\nReason (1-2 lines max): optional club event",
			wantLabel:  "Events / Hackathons",
			wantReason: "optional club event",
		},
		{
			name:      "lowercase prefix",
			raw:       "chosen label: General Information / Misc",
			wantLabel: "General Information / Misc",
		},
		{
			name: "no structure",
			raw:  "Exam Notifications",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, reason := ParseChosen(tt.raw)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestWholeWordPatterns_CompiledOncePerTaxonomy(t *testing.T) {
	first := wholeWordPatterns(model.SourceTaxonomy)
	second := wholeWordPatterns(model.SourceTaxonomy)
	require.Len(t, first, model.SourceTaxonomy.Len())
	assert.Same(t, &first[0], &second[0])

	custom := model.MustTaxonomy(model.TaxonomySource,
		[]model.Category{"Alpha", "Beta"}, "Beta", nil)
	patterns := wholeWordPatterns(custom)
	require.Len(t, patterns, 2)
	assert.Equal(t, model.Category("Alpha"), ExtractCategory("probably alpha", custom))
	assert.Equal(t, model.SourcePlacement, ExtractCategory("from the internships / placement cell", model.SourceTaxonomy))
}

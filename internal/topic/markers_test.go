package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/mailsift/internal/model"
)

func TestParseMarkers(t *testing.T) {
	raw := `Here are the answers:
1. Required action: Yes
2. Action verb: pay
3. Consequence: yes, late fee
4. University enforced: yes
5. Optional participation: no
6. Deadline: 15 March, 5:00 PM
7. Exam related: no
8. Schedule changed: no
9. Optional learning: no
10. Optional participation event: no
11. Academic work type: one_time_requirement`

	m := ParseMarkers(raw)
	assert.Equal(t, 11, m.Parsed)
	assert.True(t, m.RequiredAction)
	assert.Equal(t, "pay", m.ActionVerb)
	assert.Equal(t, "yes", m.Consequence)
	assert.True(t, m.UniversityEnforced)
	assert.False(t, m.OptionalParticipation)
	assert.Equal(t, "15 March, 5:00 PM", m.Deadline)
	assert.Equal(t, "one_time_requirement", m.WorkType)

	fields := m.Fields()
	assert.Equal(t, "true", fields["required_action"])
	assert.Equal(t, "pay", fields["action_verb"])
}

func TestParseMarkers_Garbage(t *testing.T) {
	m := ParseMarkers("I cannot answer that.")
	assert.Zero(t, m.Parsed)
	assert.Nil(t, m.Fields())

	topic, step := Decide(m, "Administrative")
	assert.Equal(t, model.TopicGeneral, topic)
	assert.Equal(t, "no_required_action", step)
}

func TestParseMarkers_LooseFormatting(t *testing.T) {
	m := ParseMarkers("1) Required action: <yes>\n2. Action verb: Submit / upload\n 8. Schedule changed: YES.")
	assert.Equal(t, 3, m.Parsed)
	assert.True(t, m.RequiredAction)
	assert.Equal(t, "submit", m.ActionVerb)
	assert.True(t, m.ScheduleChanged)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    model.Category
		markers Markers
	}{
		{
			name:    "no action",
			markers: Markers{ActionVerb: "submit"},
			want:    model.TopicGeneral,
		},
		{
			name:    "faculty upload",
			source:  "Faculty",
			markers: Markers{RequiredAction: true, ActionVerb: "upload"},
			want:    model.TopicAssignment,
		},
		{
			name:    "upload from elsewhere is not a submission",
			source:  "Student / Club",
			markers: Markers{RequiredAction: true, ActionVerb: "upload"},
			want:    model.TopicGeneral,
		},
		{
			name:    "submit",
			markers: Markers{RequiredAction: true, ActionVerb: "submit", ScheduleChanged: true},
			want:    model.TopicAssignment,
		},
		{
			name:    "enforced payment",
			markers: Markers{RequiredAction: true, ActionVerb: "pay", UniversityEnforced: true},
			want:    model.TopicAdministrative,
		},
		{
			name:    "admin source counts as enforced",
			source:  "Administration / Office",
			markers: Markers{RequiredAction: true, ActionVerb: "verify"},
			want:    model.TopicAdministrative,
		},
		{
			name:    "exam registration",
			markers: Markers{RequiredAction: true, ActionVerb: "register", ExamRelated: true},
			want:    model.TopicExam,
		},
		{
			name:    "schedule change",
			markers: Markers{RequiredAction: true, ActionVerb: "attend", ScheduleChanged: true},
			want:    model.TopicTimetable,
		},
		{
			name:    "enforced requirement",
			markers: Markers{RequiredAction: true, ActionVerb: "attend", UniversityEnforced: true},
			want:    model.TopicAnnouncements,
		},
		{
			name:    "optional learning",
			markers: Markers{RequiredAction: true, ActionVerb: "register", OptionalLearning: true},
			want:    model.TopicCertification,
		},
		{
			name:    "optional event",
			markers: Markers{RequiredAction: true, ActionVerb: "attend", OptionalEvent: true},
			want:    model.TopicEvents,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, step := Decide(tt.markers, tt.source)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, step)
			assert.True(t, model.TopicTaxonomy.Contains(got))
		})
	}
}

package topic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/mailsift/internal/model"
)

// Markers are the obligation markers a model extracts from one email.
type Markers struct {
	ActionVerb            string
	Consequence           string
	Deadline              string
	WorkType              string
	Parsed                int
	RequiredAction        bool
	UniversityEnforced    bool
	OptionalParticipation bool
	ExamRelated           bool
	ScheduleChanged       bool
	OptionalLearning      bool
	OptionalEvent         bool
}

var answerLine = regexp.MustCompile(`^\s*(\d{1,2})\s*[.)]\s*[^:]*:\s*(.*?)\s*$`)

// ParseMarkers reads the numbered "N. Label: answer" lines of a marker
// answer. Unknown numbers and unnumbered lines are ignored, so an empty or
// garbled answer yields zero markers.
func ParseMarkers(raw string) Markers {
	var m Markers
	for _, line := range strings.Split(raw, "\n") {
		match := answerLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		value := strings.ToLower(strings.Trim(match[2], " <>*`\"'"))

		switch n {
		case 1:
			m.RequiredAction = yes(value)
		case 2:
			m.ActionVerb = firstWord(value)
		case 3:
			m.Consequence = firstWord(value)
		case 4:
			m.UniversityEnforced = yes(value)
		case 5:
			m.OptionalParticipation = yes(value)
		case 6:
			m.Deadline = strings.TrimSpace(match[2])
		case 7:
			m.ExamRelated = yes(value)
		case 8:
			m.ScheduleChanged = yes(value)
		case 9:
			m.OptionalLearning = yes(value)
		case 10:
			m.OptionalEvent = yes(value)
		case 11:
			m.WorkType = firstWord(value)
		default:
			continue
		}
		m.Parsed++
	}
	return m
}

func yes(v string) bool {
	return v == "yes" || strings.HasPrefix(v, "yes ") || strings.HasPrefix(v, "yes,") || strings.HasPrefix(v, "yes.")
}

func firstWord(v string) string {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '/' || r == '('
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Fields renders the markers for the reasoning trail.
func (m Markers) Fields() map[string]string {
	if m.Parsed == 0 {
		return nil
	}
	return map[string]string{
		"required_action":        strconv.FormatBool(m.RequiredAction),
		"action_verb":            m.ActionVerb,
		"consequence":            m.Consequence,
		"university_enforced":    strconv.FormatBool(m.UniversityEnforced),
		"optional_participation": strconv.FormatBool(m.OptionalParticipation),
		"deadline":               m.Deadline,
		"exam_related":           strconv.FormatBool(m.ExamRelated),
		"schedule_changed":       strconv.FormatBool(m.ScheduleChanged),
		"optional_learning":      strconv.FormatBool(m.OptionalLearning),
		"optional_event":         strconv.FormatBool(m.OptionalEvent),
		"work_type":              m.WorkType,
	}
}

var (
	adminSources = map[string]bool{
		"administration / office":       true,
		"administration":                true,
		"admin":                         true,
		"office":                        true,
		"administrative":                true,
		"e-gov / university automation": true,
	}
	facultySources = map[string]bool{
		"faculty / academic staff": true,
		"faculty":                  true,
		"academic staff":           true,
	}
)

// Decide maps markers onto a topic with a fixed precedence and names the
// step that fired. Mail from an administrative source counts as enforced.
func Decide(m Markers, sourceLabel string) (model.Category, string) {
	source := strings.ToLower(strings.TrimSpace(sourceLabel))
	enforced := m.UniversityEnforced || adminSources[source]
	verb := m.ActionVerb

	switch {
	case !m.RequiredAction:
		return model.TopicGeneral, "no_required_action"
	case facultySources[source] && (verb == "submit" || verb == "upload" || verb == "prepare"):
		return model.TopicAssignment, "faculty_submission"
	case verb == "submit":
		return model.TopicAssignment, "submit"
	case (verb == "pay" || verb == "update" || verb == "verify") && enforced:
		return model.TopicAdministrative, "enforced_admin_action"
	case (verb == "appear" || verb == "register") && m.ExamRelated:
		return model.TopicExam, "exam_action"
	case m.ScheduleChanged:
		return model.TopicTimetable, "schedule_changed"
	case enforced:
		return model.TopicAnnouncements, "enforced_requirement"
	case m.OptionalLearning:
		return model.TopicCertification, "optional_learning"
	case m.OptionalEvent:
		return model.TopicEvents, "optional_event"
	default:
		return model.TopicGeneral, "fallback"
	}
}

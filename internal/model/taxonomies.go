package model

import (
	"fmt"
	"sort"
)

// Level-1 source categories.
const (
	SourceExternalCourses Category = "NPTEL / External Courses"
	SourceAutomation      Category = "E-Gov / University Automation"
	SourceProject         Category = "SGP / Project Related"
	SourcePlacement       Category = "Internships / Placement Cell"
	SourceExamCell        Category = "Exam Cell / Academic Office"
	SourceEvents          Category = "Events / Hackathons / Clubs"
	SourceAdministrative  Category = "Administrative"
	SourceMisc            Category = "Misc"
)

// Level-1 academic categories.
const (
	AcademicAssignment     Category = "Assignment"
	AcademicTest           Category = "Test"
	AcademicExam           Category = "Exam"
	AcademicLecture        Category = "Lecture"
	AcademicEvent          Category = "Event"
	AcademicAdministrative Category = "Administrative"
	AcademicUrgent         Category = "Urgent"
	AcademicMisc           Category = "Misc"
)

// Level-2 topic categories.
const (
	TopicTimetable      Category = "Timetable / Schedule Update"
	TopicExam           Category = "Exam Notifications"
	TopicAssignment     Category = "Assignment or Submission"
	TopicCertification  Category = "Certification / Courses"
	TopicPlacement      Category = "Internship / Placement Opportunities"
	TopicEvents         Category = "Events / Hackathons"
	TopicAnnouncements  Category = "Important Announcements"
	TopicAdministrative Category = "Administrative / Fees / Counselling"
	TopicGeneral        Category = "General Information / Misc"
)

// Built-in taxonomy names.
const (
	TaxonomySource   = "source"
	TaxonomyAcademic = "academic"
	TaxonomyTopic    = "topic"
)

// SourceTaxonomy is the Level-1 "who sent it" category set.
var SourceTaxonomy = MustTaxonomy(TaxonomySource,
	[]Category{
		SourceExternalCourses,
		SourceAutomation,
		SourceProject,
		SourcePlacement,
		SourceExamCell,
		SourceEvents,
		SourceAdministrative,
		SourceMisc,
	},
	SourceMisc,
	map[Role]Category{
		RoleExternalCourse: SourceExternalCourses,
		RoleAutomation:     SourceAutomation,
		RoleProject:        SourceProject,
		RoleInternship:     SourcePlacement,
		RoleExam:           SourceExamCell,
		RoleEvent:          SourceEvents,
		RoleAdministrative: SourceAdministrative,
		RoleProgram:        SourceAdministrative,
		RoleCourseDocument: SourceAdministrative,
	},
)

// AcademicTaxonomy is the Level-1 variant keyed on academic activity.
var AcademicTaxonomy = MustTaxonomy(TaxonomyAcademic,
	[]Category{
		AcademicAssignment,
		AcademicTest,
		AcademicExam,
		AcademicLecture,
		AcademicEvent,
		AcademicAdministrative,
		AcademicUrgent,
		AcademicMisc,
	},
	AcademicMisc,
	map[Role]Category{
		RoleExternalCourse: AcademicAdministrative,
		RoleAutomation:     AcademicAdministrative,
		RoleProgram:        AcademicAdministrative,
		RoleCourseDocument: AcademicAdministrative,
		RoleAdministrative: AcademicAdministrative,
		RoleExam:           AcademicExam,
		RoleEvent:          AcademicEvent,
		RoleAssignment:     AcademicAssignment,
		RoleTest:           AcademicTest,
		RoleLecture:        AcademicLecture,
		RoleUrgent:         AcademicUrgent,
	},
)

// TopicTaxonomy is the Level-2 "what is it about" category set.
var TopicTaxonomy = MustTaxonomy(TaxonomyTopic,
	[]Category{
		TopicTimetable,
		TopicExam,
		TopicAssignment,
		TopicCertification,
		TopicPlacement,
		TopicEvents,
		TopicAnnouncements,
		TopicAdministrative,
		TopicGeneral,
	},
	TopicGeneral,
	map[Role]Category{
		RoleExam:           TopicExam,
		RoleAssignment:     TopicAssignment,
		RoleExternalCourse: TopicCertification,
		RoleInternship:     TopicPlacement,
		RoleEvent:          TopicEvents,
		RoleUrgent:         TopicAnnouncements,
		RoleAdministrative: TopicAdministrative,
		RoleLecture:        TopicTimetable,
	},
)

var builtinTaxonomies = map[string]*Taxonomy{
	TaxonomySource:   SourceTaxonomy,
	TaxonomyAcademic: AcademicTaxonomy,
	TaxonomyTopic:    TopicTaxonomy,
}

// TaxonomyByName returns a built-in taxonomy.
func TaxonomyByName(name string) (*Taxonomy, error) {
	t, ok := builtinTaxonomies[name]
	if !ok {
		return nil, fmt.Errorf("unknown taxonomy %q (known: %v)", name, TaxonomyNames())
	}
	return t, nil
}

// TaxonomyNames lists the built-in taxonomy names.
func TaxonomyNames() []string {
	names := make([]string, 0, len(builtinTaxonomies))
	for name := range builtinTaxonomies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

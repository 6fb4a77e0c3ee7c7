package topic

import "github.com/Veraticus/mailsift/internal/model"

func plain(words ...string) []Keyword {
	kws := make([]Keyword, len(words))
	for i, w := range words {
		kws[i] = Keyword{Text: w}
	}
	return kws
}

// DefaultKeywords returns the built-in keyword sets for TopicTaxonomy.
func DefaultKeywords() map[model.Category][]Keyword {
	return map[model.Category][]Keyword{
		model.TopicTimetable: plain("timetable", "schedule", "rescheduled"),
		model.TopicExam: append(plain("exam", "hall ticket", "seating"),
			Keyword{Text: `\bmid[- ]?sem\b`, Regex: true},
			Keyword{Text: `\bend[- ]?sem\b`, Regex: true},
		),
		model.TopicAssignment:     plain("submit", "submission", "assignment", "project", "sgp"),
		model.TopicCertification:  plain("nptel", "coursera", "aws", "cisco", "certification"),
		model.TopicPlacement:      plain("internship", "placement", "job", "apply"),
		model.TopicEvents:         plain("event", "workshop", "seminar", "hackathon"),
		model.TopicAnnouncements:  plain("important", "urgent", "mandatory", "last date"),
		model.TopicAdministrative: plain("fees", "hostel", "counselling", "refund"),
	}
}

// DefaultBias returns the source-to-topic bias table. It carries rows for
// the built-in source taxonomy and for the coarser sender-role labels some
// datasets use.
func DefaultBias() BiasTable {
	return BiasTable{
		"Administration / Office": {
			model.TopicAdministrative: 0.5,
			model.TopicExam:           0.3,
		},
		"Student / Club": {
			model.TopicEvents: 0.4,
		},
		"External Course Provider": {
			model.TopicCertification: 0.6,
		},
		string(model.SourceExternalCourses): {
			model.TopicCertification: 0.6,
		},
		string(model.SourceAutomation): {
			model.TopicAdministrative: 0.5,
			model.TopicAnnouncements:  0.2,
		},
		string(model.SourceProject): {
			model.TopicAssignment: 0.4,
		},
		string(model.SourcePlacement): {
			model.TopicPlacement: 0.8,
		},
		string(model.SourceExamCell): {
			model.TopicExam:      0.5,
			model.TopicTimetable: 0.2,
		},
		string(model.SourceEvents): {
			model.TopicEvents: 0.4,
		},
		string(model.SourceAdministrative): {
			model.TopicAdministrative: 0.5,
			model.TopicExam:           0.3,
		},
	}
}

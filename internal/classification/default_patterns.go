package classification

// DefaultGroups returns the built-in pattern groups. Every pattern is
// anchored on word boundaries so "class" never fires inside "classroom".
func DefaultGroups() []PatternGroup {
	return []PatternGroup{
		{
			Name: GroupAssignment,
			Patterns: []string{
				`\bassignments?\b`,
				`\bhomework\b`,
				`\bsubmit\b`,
				`\bsubmission\b`,
				`\bsubmit by\b`,
				`\bdue\b`,
				`\bdue by\b`,
				`\bdeadline\b`,
				`\bturn in\b`,
				`\bupload\b`,
			},
		},
		{
			Name: GroupTest,
			Patterns: []string{
				`\bquiz\b`,
				`\bquizzes\b`,
				`\bviva\b`,
				`\bunit test\b`,
				`\bclass test\b`,
				`\binternal test\b`,
			},
		},
		{
			Name: GroupExam,
			Patterns: []string{
				`\bexam\b`,
				`\bexamination\b`,
				`\bmid[- ]?sem\b`,
				`\bend[- ]?sem\b`,
				`\bms/es\b`,
				`\bseating plan\b`,
				`\bhall ticket\b`,
				`\bexam timetable\b`,
				`\btimetable\b`,
				`\bexam schedule\b`,
				`\bschedule\b`,
			},
		},
		{
			Name: GroupLecture,
			Patterns: []string{
				`\bclass\b`,
				`\blecture\b`,
				`\brescheduled\b`,
				`\bcancelled\b`,
				`\bpresentation session\b`,
				`\bpractical session\b`,
				`\btheory class\b`,
				`\blab session\b`,
				`\bsyllabus\b`,
				`\bunit plan\b`,
				`\bweekly schedule\b`,
				`\bteaching plan\b`,
				`\bpractical list\b`,
				`\broom changed\b`,
				`\bclass updates?\b`,
				`\bclass cancellation\b`,
				`\bfaculty announcement\b`,
				`\bsemester plan\b`,
				`\blecture notes?\b`,
				`\bclass schedule\b`,
				`\blab schedule\b`,
				`\bunit test schedule\b`,
				`\bsubject plan\b`,
				`\bsubject outline\b`,
			},
		},
		{
			Name: GroupUrgent,
			Patterns: []string{
				`\burgent\b`,
				`\bimmediate action\b`,
				`\blast date\b`,
				`\btoday only\b`,
				`\bimportant update\b`,
			},
		},
		{
			Name: GroupProgram,
			Patterns: []string{
				`\bacademy\b`,
				`\bbatch\b`,
				`\bprogram\b`,
				`\bcertificate\b`,
				`\bcertification\b`,
				`\benroll\b`,
				`\benrollment\b`,
				`\bjoining\b`,
				`\bworkshop series\b`,
				`\bseries\b`,
			},
		},
		{
			Name: GroupNewsletter,
			Patterns: []string{
				`\bunsubscribe\b`,
				`\bnewsletter\b`,
				`\bpromo\b`,
				`\bpricing\b`,
				`\boffer\b`,
				`\bsale\b`,
				`\bbilling\b`,
				`\bdiscount\b`,
			},
		},
		{
			Name: GroupEvent,
			Patterns: []string{
				`\bctf\b`,
				`\bcapture the flag\b`,
				`\bhackathon\b`,
				`\bworkshop\b`,
				`\bwebinar\b`,
				`\bseminar\b`,
				`\bcompetition\b`,
				`\bchallenge\b`,
				`\bguest lecture\b`,
				`\btech talk\b`,
				`\bboot ?camp\b`,
				`\bhands[- ]on\b`,
				`\btraining\b`,
				`\bcoding contest\b`,
				`\bhack ?day\b`,
			},
		},
		{
			Name: GroupCourseDocument,
			Patterns: []string{
				`\bsyllabus\b`,
				`\bpfa\b`,
				`\bpractical list\b`,
				`\bpractical\b`,
				`\bmaterials\b`,
				`\bdocs?\b`,
				`\bread the attached\b`,
			},
		},
		{
			Name: GroupSemesterPlan,
			Patterns: []string{
				`\bsemester timetable\b`,
				`\bfull semester\b`,
				`\bcomplete timetable\b`,
				`\bterm timetable\b`,
				`\bsemester schedule\b`,
				`\bacademic calendar\b`,
				`\bsemester plan\b`,
			},
		},
		{
			Name: GroupInternship,
			Patterns: []string{
				`\binternships?\b`,
				`\bplacements?\b`,
				`\bplacement cell\b`,
				`\bcampus drive\b`,
				`\brecruitment\b`,
			},
		},
		{
			Name: GroupProject,
			Patterns: []string{
				`\bsgp\b`,
				`\bweekly report\b`,
			},
		},
		{
			Name: GroupAdmin,
			Patterns: []string{
				`\bfees?\b`,
				`\bpayment\b`,
				`\bforms?\b`,
				`\bhostel\b`,
				`\bcounsell?ing\b`,
			},
		},
		{
			Name: GroupAutomation,
			Patterns: []string{
				`\bauto\b`,
				`\bauto[- ]?generated\b`,
				`\bautomated\b`,
				`\bsystem\b`,
				`\bsystem generated\b`,
			},
		},
	}
}

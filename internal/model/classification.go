package model

import "time"

// Reason identifies which rule produced a verdict. It threads context from
// the pre-rule pass into the post-rule pass.
type Reason string

// Pre-rule reasons.
const (
	ReasonAdDomain            Reason = "ad_domain"
	ReasonPersonalDomain      Reason = "personal_domain"
	ReasonClassroom           Reason = "classroom"
	ReasonTrustedProvider     Reason = "trusted_provider"
	ReasonNewsletterExternal  Reason = "newsletter_external"
	ReasonProject             Reason = "project_rule"
	ReasonExternalProgramSpam Reason = "external_program_spam"
	ReasonProgramTrusted      Reason = "program_trusted"
	ReasonExam                Reason = "exam"
	ReasonPlacement           Reason = "placement"
	ReasonExternalPlacement   Reason = "external_placement"
	ReasonEvent               Reason = "event"
	ReasonCourseDocument      Reason = "course_document"
	ReasonAssignment          Reason = "assignment"
	ReasonTest                Reason = "test"
	ReasonLecture             Reason = "lecture"
	ReasonUrgent              Reason = "urgent"
	ReasonAdminRule           Reason = "admin_rule"
	ReasonSystemMail          Reason = "system_mail"
	ReasonUndecided           Reason = "undecided"
)

// PostReason identifies which post-rule, if any, changed the source output.
type PostReason string

// Post-rule reasons.
const (
	PostPassthrough        PostReason = "passthrough"
	PostNewsletter         PostReason = "newsletter_override"
	PostUnrecognized       PostReason = "unrecognized_output"
	PostSpamProgram        PostReason = "spam_program_override"
	PostStudentAdmin       PostReason = "student_admin_ban"
	PostClassroom          PostReason = "classroom_override"
	PostCourseDocument     PostReason = "course_document_override"
	PostKeywordRescue      PostReason = "keyword_rescue"
	PostPreRuleFallback    PostReason = "pre_rule_fallback"
	PostSkippedHighVerdict PostReason = "pre_rule_final"
)

// Verdict is the outcome of the pre-rule pass. An empty Category means
// "defer to the suggestion source"; HighConfidence means "skip the source".
type Verdict struct {
	Category       Category
	Reason         Reason
	HighConfidence bool
}

// Decided reports whether the verdict carries a label.
func (v Verdict) Decided() bool {
	return v.Category != ""
}

// Final reports whether the verdict bypasses the suggestion source.
func (v Verdict) Final() bool {
	return v.Category != "" && v.HighConfidence
}

// LabeledRecord is one row of the working dataset.
type LabeledRecord struct {
	Sender      string
	RawText     string
	CleanText   string
	SourceLabel string
	// Label is the field being edited in the current pass.
	Label string
	Index int
}

// Pending reports whether the row still needs a label.
func (r LabeledRecord) Pending() bool {
	return r.Label == ""
}

// TopicScore is one entry of the Level-2 score table.
type TopicScore struct {
	Category Category
	Keywords []string
	Score    float64
	Bias     float64
}

// Suggestion is a candidate label together with its reasoning trail.
type Suggestion struct {
	Category      Category
	Verdict       Verdict
	ModelRaw      string
	ModelCategory Category
	ModelError    string
	ModelReason   string
	PostReason    PostReason
	Scores        []TopicScore
	Markers       map[string]string
	Consulted     bool
}

// SuggestionRequest is what a suggestion source is asked about.
type SuggestionRequest struct {
	Kind        PromptKind
	Sender      string
	Content     string
	SourceLabel string
	Categories  []string
}

// PromptKind selects the prompt template a source uses.
type PromptKind string

// Prompt kinds.
const (
	PromptSource  PromptKind = "source"
	PromptTopic   PromptKind = "topic"
	PromptMarkers PromptKind = "markers"
)

// Pending is a row in the SUGGESTED state, waiting for the reviewer.
type Pending struct {
	Taxonomy   *Taxonomy
	Suggestion Suggestion
	Record     LabeledRecord
	Position   int
	Remaining  int
}

// Action is what the reviewer chose to do with a row.
type Action string

// Reviewer actions.
const (
	ActionAccept   Action = "accept"
	ActionOverride Action = "override"
	ActionSkip     Action = "skip"
	ActionQuit     Action = "quit"
)

// Decision is the reviewer's response for one row.
type Decision struct {
	Action   Action
	Category Category
	// Warning is set when the reviewer's input was not understood.
	Warning string
}

// ReviewStats summarizes a review session.
type ReviewStats struct {
	StartedAt  time.Time
	RunID      string
	StartIndex int
	Total      int
	Labeled    int
	Visited    int
	Accepted   int
	Overridden int
	Skipped    int
	Consulted  int
	Duration   time.Duration
	Quit       bool
}

// Remaining is the number of rows still unlabeled.
func (s ReviewStats) Remaining() int {
	return s.Total - s.Labeled
}

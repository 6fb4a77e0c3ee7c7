package rules

import (
	"github.com/Veraticus/mailsift/internal/classification"
	"github.com/Veraticus/mailsift/internal/model"
)

// Post runs the post-rule chain over the category the suggestion source
// proposed. The result is always a member of the engine's taxonomy.
func (e *Engine) Post(in Input, v model.Verdict, proposed model.Category) (model.Category, model.PostReason) {
	cat, reason := e.post(in, v, proposed)
	if !e.taxonomy.Contains(cat) {
		cat, reason = e.taxonomy.CatchAll(), model.PostUnrecognized
	}
	if reason != model.PostPassthrough {
		e.logger.Debug("post-rule override",
			"reason", reason,
			"pre_reason", v.Reason,
			"proposed", proposed,
			"category", cat)
	}
	return cat, reason
}

func (e *Engine) post(in Input, v model.Verdict, proposed model.Category) (model.Category, model.PostReason) {
	t := e.taxonomy
	catchAll := t.CatchAll()

	// Newsletter vocabulary wins over anything a model was swayed into.
	if e.has(in, classification.GroupNewsletter) &&
		!(e.policy.EventBeatsNewsletter && e.has(in, classification.GroupEvent)) {
		return catchAll, model.PostNewsletter
	}

	if !t.Contains(proposed) {
		return catchAll, model.PostUnrecognized
	}

	institutional := t.Is(proposed, model.RoleAdministrative) || t.Is(proposed, model.RoleProgram)

	if v.Reason == model.ReasonExternalProgramSpam && institutional {
		return catchAll, model.PostSpamProgram
	}

	if e.policy.isStudent(in.Domain) && institutional {
		return catchAll, model.PostStudentAdmin
	}

	if v.Reason == model.ReasonClassroom && (proposed == catchAll || t.Is(proposed, model.RoleEvent)) {
		if cat, ok := e.rescan(in, classroomRescan); ok {
			return cat, model.PostClassroom
		}
		if cat, ok := t.ForRole(model.RoleAdministrative); ok {
			return cat, model.PostClassroom
		}
	}

	if t.Is(proposed, model.RoleAssignment) &&
		(e.has(in, classification.GroupCourseDocument) || e.has(in, classification.GroupSemesterPlan)) {
		if cat, ok := t.ForRole(model.RoleCourseDocument); ok {
			return cat, model.PostCourseDocument
		}
	}

	if proposed == catchAll {
		if cat, ok := e.rescan(in, keywordRescue); ok {
			return cat, model.PostKeywordRescue
		}
		// A low-confidence pre-rule label is the prior when the source
		// had nothing better.
		if v.Decided() && !v.HighConfidence && v.Category != catchAll {
			return v.Category, model.PostPreRuleFallback
		}
	}

	return proposed, model.PostPassthrough
}

type rescanStep struct {
	group classification.GroupName
	role  model.Role
}

var classroomRescan = []rescanStep{
	{classification.GroupAssignment, model.RoleAssignment},
	{classification.GroupTest, model.RoleTest},
	{classification.GroupLecture, model.RoleLecture},
}

var keywordRescue = []rescanStep{
	{classification.GroupAssignment, model.RoleAssignment},
	{classification.GroupTest, model.RoleTest},
	{classification.GroupExam, model.RoleExam},
	{classification.GroupEvent, model.RoleEvent},
}

// rescan returns the first mapped category whose vocabulary is present.
func (e *Engine) rescan(in Input, steps []rescanStep) (model.Category, bool) {
	for _, s := range steps {
		cat, ok := e.taxonomy.ForRole(s.role)
		if !ok {
			continue
		}
		if e.has(in, s.group) {
			return cat, true
		}
	}
	return "", false
}

// Resolve combines a pre-rule verdict with the source's extracted category.
// A final verdict is used as is; otherwise the post-rule chain decides.
func (e *Engine) Resolve(in Input, v model.Verdict, proposed model.Category) (model.Category, model.PostReason) {
	if v.Final() {
		return v.Category, model.PostSkippedHighVerdict
	}
	return e.Post(in, v, proposed)
}

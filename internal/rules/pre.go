package rules

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/mailsift/internal/classification"
	"github.com/Veraticus/mailsift/internal/mailtext"
	"github.com/Veraticus/mailsift/internal/model"
)

// Input is one row as the rule chains see it.
type Input struct {
	Sender string
	Domain string
	// Text is the normalized body.
	Text string
}

// NewInput derives the sender domain and normalizes the text.
func NewInput(sender, text string) Input {
	return Input{
		Sender: sender,
		Domain: mailtext.ExtractDomain(sender),
		Text:   mailtext.Clean(text),
	}
}

// PreRule is one step of the first-match-wins chain. A rule with no Role
// defers to the suggestion source; a rule whose Role the taxonomy does not
// map never fires.
type PreRule struct {
	Match  func(e *Engine, in Input) bool
	Name   string
	Role   model.Role
	Reason model.Reason
	High   bool
}

// Engine evaluates the pre- and post-rule chains for one taxonomy.
type Engine struct {
	lib      *classification.Library
	taxonomy *model.Taxonomy
	logger   *slog.Logger
	pre      []PreRule
	policy   Policy
}

// New builds an engine. A nil library means classification.Default and a
// nil logger means slog.Default.
func New(lib *classification.Library, taxonomy *model.Taxonomy, policy Policy, logger *slog.Logger) *Engine {
	if lib == nil {
		lib = classification.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		lib:      lib,
		taxonomy: taxonomy,
		policy:   policy,
		logger:   logger.With("component", "rules", "taxonomy", taxonomy.Name),
		pre:      DefaultPreRules(),
	}
}

// Taxonomy returns the category set the engine labels into.
func (e *Engine) Taxonomy() *model.Taxonomy {
	return e.taxonomy
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// PreRules returns the chain in evaluation order.
func (e *Engine) PreRules() []PreRule {
	return append([]PreRule(nil), e.pre...)
}

func (e *Engine) has(in Input, group classification.GroupName) bool {
	return e.lib.MatchesGroup(in.Text, group)
}

// DefaultPreRules returns the chain in priority order. Order is behavior:
// ad and spam checks must run before the program checks, or a spam sender
// advertising a "certification program" would look trustworthy.
func DefaultPreRules() []PreRule {
	return []PreRule{
		{
			Name:   "classroom",
			Reason: model.ReasonClassroom,
			Match: func(e *Engine, in Input) bool {
				return e.policy.isClassroom(in.Sender)
			},
		},
		{
			Name:   "ad_domain",
			Role:   model.RoleCatchAll,
			Reason: model.ReasonAdDomain,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.policy.isAd(in.Domain)
			},
		},
		{
			Name:   "personal_domain",
			Role:   model.RoleCatchAll,
			Reason: model.ReasonPersonalDomain,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.policy.isPersonal(in.Domain)
			},
		},
		{
			Name:   "trusted_provider",
			Role:   model.RoleExternalCourse,
			Reason: model.ReasonTrustedProvider,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.policy.isTrusted(in.Domain)
			},
		},
		{
			Name:   "newsletter_external",
			Role:   model.RoleCatchAll,
			Reason: model.ReasonNewsletterExternal,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				if e.policy.isInstitutional(in.Domain) || !e.has(in, classification.GroupNewsletter) {
					return false
				}
				return !(e.policy.EventBeatsNewsletter && e.has(in, classification.GroupEvent))
			},
		},
		{
			Name:   "project",
			Role:   model.RoleProject,
			Reason: model.ReasonProject,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupProject)
			},
		},
		{
			Name:   "external_program_spam",
			Role:   model.RoleCatchAll,
			Reason: model.ReasonExternalProgramSpam,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupProgram) &&
					!e.policy.isInstitutional(in.Domain) &&
					!e.policy.isTrusted(in.Domain)
			},
		},
		{
			Name:   "program_trusted",
			Role:   model.RoleProgram,
			Reason: model.ReasonProgramTrusted,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupProgram) &&
					(e.policy.isStaff(in.Domain) || e.policy.isTrusted(in.Domain))
			},
		},
		{
			Name:   "exam",
			Role:   model.RoleExam,
			Reason: model.ReasonExam,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupExam)
			},
		},
		{
			Name:   "external_placement",
			Role:   model.RoleCatchAll,
			Reason: model.ReasonExternalPlacement,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.policy.ExternalPlacementIsCatchAll &&
					e.has(in, classification.GroupInternship) &&
					!e.policy.isInstitutional(in.Domain) &&
					!e.policy.isTrusted(in.Domain)
			},
		},
		{
			Name:   "placement",
			Role:   model.RoleInternship,
			Reason: model.ReasonPlacement,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupInternship)
			},
		},
		{
			Name:   "event",
			Role:   model.RoleEvent,
			Reason: model.ReasonEvent,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupEvent)
			},
		},
		{
			Name:   "course_document",
			Role:   model.RoleCourseDocument,
			Reason: model.ReasonCourseDocument,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupCourseDocument) ||
					e.has(in, classification.GroupSemesterPlan)
			},
		},
		{
			Name:   "assignment",
			Role:   model.RoleAssignment,
			Reason: model.ReasonAssignment,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupAssignment)
			},
		},
		{
			Name:   "test",
			Role:   model.RoleTest,
			Reason: model.ReasonTest,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupTest)
			},
		},
		{
			Name:   "lecture",
			Role:   model.RoleLecture,
			Reason: model.ReasonLecture,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupLecture)
			},
		},
		{
			Name:   "urgent",
			Role:   model.RoleUrgent,
			Reason: model.ReasonUrgent,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.has(in, classification.GroupUrgent)
			},
		},
		{
			Name:   "admin_rule",
			Role:   model.RoleAdministrative,
			Reason: model.ReasonAdminRule,
			Match: func(e *Engine, in Input) bool {
				return e.policy.isStaff(in.Domain) && e.has(in, classification.GroupAdmin)
			},
		},
		{
			Name:   "system_mail",
			Role:   model.RoleAutomation,
			Reason: model.ReasonSystemMail,
			High:   true,
			Match: func(e *Engine, in Input) bool {
				return e.policy.isStaff(in.Domain) && e.has(in, classification.GroupAutomation)
			},
		},
	}
}

// Pre runs the pre-rule chain. The first rule that matches, and whose role
// the taxonomy maps, decides; nothing matching defers with ReasonUndecided.
func (e *Engine) Pre(in Input) model.Verdict {
	for _, rule := range e.pre {
		var cat model.Category
		if rule.Role != "" {
			mapped, ok := e.taxonomy.ForRole(rule.Role)
			if !ok {
				continue
			}
			cat = mapped
		}
		if !rule.Match(e, in) {
			continue
		}

		v := model.Verdict{Category: cat, Reason: rule.Reason, HighConfidence: rule.High && cat != ""}
		e.logger.Debug("pre-rule matched",
			"rule", rule.Name,
			"domain", in.Domain,
			"category", v.Category,
			"high", v.HighConfidence)
		return v
	}

	e.logger.Debug("no pre-rule matched", "domain", in.Domain)
	return model.Verdict{Reason: model.ReasonUndecided}
}

// Describe renders the chain for audit output, one tab-separated rule per
// line: position, name, target category and confidence.
func (e *Engine) Describe() []string {
	lines := make([]string, 0, len(e.pre))
	for i, rule := range e.pre {
		target := "defer"
		if rule.Role != "" {
			cat, ok := e.taxonomy.ForRole(rule.Role)
			if !ok {
				target = "(unmapped)"
			} else {
				target = string(cat)
			}
		}
		conf := "low"
		if rule.High {
			conf = "high"
		}
		lines = append(lines, fmt.Sprintf("%d\t%s\t%s\t%s", i+1, rule.Name, target, conf))
	}
	return lines
}

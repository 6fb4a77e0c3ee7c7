// Package rules implements the deterministic passes that run before and
// after the suggestion source: an ordered pre-rule chain that can settle a
// row on its own, and a post-rule chain that can override the source.
package rules

import (
	"strings"

	"github.com/Veraticus/mailsift/internal/mailtext"
)

// Policy holds the sender lists and the precedence switches the rule chains
// consult. The zero value matches nothing and favors newsletter vocabulary.
type Policy struct {
	// AdDomains match as substrings of the sender domain.
	AdDomains []string `mapstructure:"ad_domains"`
	// PersonalDomains are free-mail domains treated as noise.
	PersonalDomains []string `mapstructure:"personal_domains"`
	// TrustedProviders are exact external course provider domains.
	TrustedProviders []string `mapstructure:"trusted_providers"`
	// TrustedRoots match trusted providers by domain suffix.
	TrustedRoots []string `mapstructure:"trusted_roots"`
	// StaffDomains identify faculty and administration senders.
	StaffDomains []string `mapstructure:"staff_domains"`
	// StudentDomains identify the student and club population.
	StudentDomains []string `mapstructure:"student_domains"`
	// ClassroomKeys are substrings of the sender that mark LMS mail.
	ClassroomKeys []string `mapstructure:"classroom_keys"`

	// EventBeatsNewsletter exempts event announcements from the
	// newsletter catch-all.
	EventBeatsNewsletter bool `mapstructure:"event_beats_newsletter"`
	// ExternalPlacementIsCatchAll sends placement vocabulary from
	// untrusted external senders to the catch-all.
	ExternalPlacementIsCatchAll bool `mapstructure:"external_placement_is_catch_all"`
}

// DefaultPolicy returns the lists observed for the CHARUSAT mailbox.
func DefaultPolicy() Policy {
	return Policy{
		AdDomains:        []string{"pinterest.com", "read.ai", "mailchimp.com", "sendgrid.net"},
		TrustedProviders: []string{"nptel.iitm.ac.in", "coursera.org"},
		TrustedRoots:     []string{"nptel.ac.in"},
		StaffDomains:     []string{"charusat.ac.in"},
		StudentDomains:   []string{"charusat.edu.in"},
		ClassroomKeys:    []string{"classroom.google.com", "no-reply@classroom"},
	}
}

// SourcePolicy is DefaultPolicy plus the free-mail rule used when labeling
// by sender: personal accounts never carry institutional mail.
func SourcePolicy() Policy {
	p := DefaultPolicy()
	p.PersonalDomains = []string{"gmail.com"}
	return p
}

// PolicyFor returns the default policy for a taxonomy name.
func PolicyFor(taxonomy string) Policy {
	if taxonomy == "source" {
		return SourcePolicy()
	}
	return DefaultPolicy()
}

func (p Policy) isAd(domain string) bool {
	if domain == "" {
		return false
	}
	for _, ad := range p.AdDomains {
		if ad != "" && strings.Contains(domain, strings.ToLower(ad)) {
			return true
		}
	}
	return false
}

func (p Policy) isPersonal(domain string) bool {
	return matchesAny(domain, p.PersonalDomains)
}

func (p Policy) isTrusted(domain string) bool {
	if domain == "" {
		return false
	}
	for _, d := range p.TrustedProviders {
		if strings.EqualFold(domain, d) {
			return true
		}
	}
	return matchesAny(domain, p.TrustedRoots)
}

func (p Policy) isStaff(domain string) bool {
	return matchesAny(domain, p.StaffDomains)
}

func (p Policy) isStudent(domain string) bool {
	return matchesAny(domain, p.StudentDomains)
}

func (p Policy) isInstitutional(domain string) bool {
	return p.isStaff(domain) || p.isStudent(domain)
}

func (p Policy) isClassroom(sender string) bool {
	s := strings.ToLower(sender)
	for _, k := range p.ClassroomKeys {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func matchesAny(domain string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if mailtext.DomainMatches(domain, suffix) {
			return true
		}
	}
	return false
}

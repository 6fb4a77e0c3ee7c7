// Package classification holds the pattern library: named groups of
// word-boundary regular expressions that the rule engines test email text
// against.
package classification

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// GroupName identifies a pattern group.
type GroupName string

// Pattern group names.
const (
	GroupAssignment     GroupName = "assignment"
	GroupTest           GroupName = "test"
	GroupExam           GroupName = "exam"
	GroupLecture        GroupName = "lecture"
	GroupUrgent         GroupName = "urgent"
	GroupProgram        GroupName = "program"
	GroupNewsletter     GroupName = "newsletter"
	GroupEvent          GroupName = "event"
	GroupCourseDocument GroupName = "course_document"
	GroupSemesterPlan   GroupName = "semester_plan"
	GroupInternship     GroupName = "internship"
	GroupProject        GroupName = "project"
	GroupAdmin          GroupName = "admin"
	GroupAutomation     GroupName = "automation"
)

// PatternGroup is a named set of regular expressions describing one concept.
type PatternGroup struct {
	Name     GroupName
	Patterns []string
}

// compiledGroup holds the compiled form of a group.
type compiledGroup struct {
	name     GroupName
	sources  []string
	patterns []*regexp.Regexp
}

// Library is an immutable set of compiled pattern groups. It is safe for
// concurrent use.
type Library struct {
	groups map[GroupName]*compiledGroup
	order  []GroupName
}

// NewLibrary compiles the given groups.
func NewLibrary(groups []PatternGroup) (*Library, error) {
	lib := &Library{
		groups: make(map[GroupName]*compiledGroup, len(groups)),
		order:  make([]GroupName, 0, len(groups)),
	}

	for _, g := range groups {
		if _, dup := lib.groups[g.Name]; dup {
			return nil, fmt.Errorf("duplicate pattern group %s", g.Name)
		}

		cg := &compiledGroup{
			name:     g.Name,
			sources:  append([]string(nil), g.Patterns...),
			patterns: make([]*regexp.Regexp, 0, len(g.Patterns)),
		}

		for _, p := range g.Patterns {
			regexStr := p
			if !strings.HasPrefix(regexStr, "(?i)") {
				regexStr = "(?i)" + regexStr
			}

			re, err := regexp.Compile(regexStr)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern %q in group %s: %w", p, g.Name, err)
			}
			cg.patterns = append(cg.patterns, re)
		}

		lib.groups[g.Name] = cg
		lib.order = append(lib.order, g.Name)
	}

	return lib, nil
}

var (
	defaultOnce    sync.Once
	defaultLibrary *Library
)

// Default returns the library built from DefaultGroups.
func Default() *Library {
	defaultOnce.Do(func() {
		lib, err := NewLibrary(DefaultGroups())
		if err != nil {
			panic(fmt.Sprintf("default pattern groups do not compile: %v", err))
		}
		defaultLibrary = lib
	})
	return defaultLibrary
}

// MatchesGroup reports whether the lowercased text matches at least one
// pattern of the group. Unknown groups and empty text match nothing.
func (l *Library) MatchesGroup(text string, group GroupName) bool {
	_, ok := l.FirstMatch(text, group)
	return ok
}

// FirstMatch returns the source of the first pattern in the group that
// matches text.
func (l *Library) FirstMatch(text string, group GroupName) (string, bool) {
	if text == "" {
		return "", false
	}
	g, ok := l.groups[group]
	if !ok {
		return "", false
	}

	t := strings.ToLower(text)
	for i, re := range g.patterns {
		if re.MatchString(t) {
			return g.sources[i], true
		}
	}
	return "", false
}

// MatchingGroups returns every group that matches text, in definition order.
func (l *Library) MatchingGroups(text string) []GroupName {
	var matched []GroupName
	for _, name := range l.order {
		if l.MatchesGroup(text, name) {
			matched = append(matched, name)
		}
	}
	return matched
}

// Groups returns the group names in definition order.
func (l *Library) Groups() []GroupName {
	return append([]GroupName(nil), l.order...)
}

// Patterns returns the sources of a group's patterns.
func (l *Library) Patterns(group GroupName) []string {
	g, ok := l.groups[group]
	if !ok {
		return nil
	}
	return append([]string(nil), g.sources...)
}

// PatternCount returns the number of compiled patterns across all groups.
func (l *Library) PatternCount() int {
	n := 0
	for _, g := range l.groups {
		n += len(g.patterns)
	}
	return n
}

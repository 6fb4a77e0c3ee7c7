// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Category is a single label value from a closed taxonomy.
type Category string

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// Role is a semantic slot that rules can emit. A taxonomy decides which
// category, if any, fills each role.
type Role string

// Role constants.
const (
	RoleCatchAll       Role = "catch_all"
	RoleExternalCourse Role = "external_course"
	RoleAutomation     Role = "automation"
	RoleProject        Role = "project"
	RoleProgram        Role = "program"
	RoleInternship     Role = "internship"
	RoleExam           Role = "exam"
	RoleEvent          Role = "event"
	RoleAdministrative Role = "administrative"
	RoleCourseDocument Role = "course_document"
	RoleAssignment     Role = "assignment"
	RoleTest           Role = "test"
	RoleLecture        Role = "lecture"
	RoleUrgent         Role = "urgent"
)

// Taxonomy is an ordered, closed set of categories. Order only matters for
// display numbering and for "first in order" tie-breaks.
type Taxonomy struct {
	roles      map[Role]Category
	Name       string
	categories []Category
	catchAll   Category
}

// NewTaxonomy builds a taxonomy. The catch-all must be one of the categories
// and every mapped role must point at a member.
func NewTaxonomy(name string, categories []Category, catchAll Category, roles map[Role]Category) (*Taxonomy, error) {
	t := &Taxonomy{
		Name:       name,
		categories: append([]Category(nil), categories...),
		catchAll:   catchAll,
		roles:      make(map[Role]Category, len(roles)+1),
	}

	if !t.Contains(catchAll) {
		return nil, &TaxonomyError{Taxonomy: name, Category: catchAll}
	}

	for role, cat := range roles {
		if !t.Contains(cat) {
			return nil, &TaxonomyError{Taxonomy: name, Category: cat, Role: role}
		}
		t.roles[role] = cat
	}
	t.roles[RoleCatchAll] = catchAll

	return t, nil
}

// MustTaxonomy is NewTaxonomy for the built-in tables.
func MustTaxonomy(name string, categories []Category, catchAll Category, roles map[Role]Category) *Taxonomy {
	t, err := NewTaxonomy(name, categories, catchAll, roles)
	if err != nil {
		panic(err)
	}
	return t
}

// TaxonomyError reports a taxonomy that references a category outside its set.
type TaxonomyError struct {
	Taxonomy string
	Category Category
	Role     Role
}

func (e *TaxonomyError) Error() string {
	if e.Role != "" {
		return "taxonomy " + e.Taxonomy + ": role " + string(e.Role) + " maps to unknown category " + string(e.Category)
	}
	return "taxonomy " + e.Taxonomy + ": catch-all " + string(e.Category) + " is not a member"
}

// Categories returns the categories in display order.
func (t *Taxonomy) Categories() []Category {
	return append([]Category(nil), t.categories...)
}

// Names returns the category names in display order.
func (t *Taxonomy) Names() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = string(c)
	}
	return names
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.categories)
}

// CatchAll returns the fallback category.
func (t *Taxonomy) CatchAll() Category {
	return t.catchAll
}

// Contains reports whether c is a member.
func (t *Taxonomy) Contains(c Category) bool {
	for _, cat := range t.categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Lookup finds a member by case-insensitive name.
func (t *Taxonomy) Lookup(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, cat := range t.categories {
		if strings.EqualFold(string(cat), name) {
			return cat, true
		}
	}
	return "", false
}

// At returns the category with the given 1-based display number.
func (t *Taxonomy) At(number int) (Category, bool) {
	if number < 1 || number > len(t.categories) {
		return "", false
	}
	return t.categories[number-1], true
}

// ForRole returns the category filling role, if the taxonomy maps it.
func (t *Taxonomy) ForRole(role Role) (Category, bool) {
	cat, ok := t.roles[role]
	return cat, ok
}

// Is reports whether c is the category mapped to role.
func (t *Taxonomy) Is(c Category, role Role) bool {
	cat, ok := t.roles[role]
	return ok && cat == c
}

// Normalize maps any value onto the taxonomy, remapping non-members to the
// catch-all.
func (t *Taxonomy) Normalize(c Category) Category {
	if t.Contains(c) {
		return c
	}
	return t.catchAll
}

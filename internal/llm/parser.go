package llm

import (
	"regexp"
	"strings"
	"sync"

	"github.com/Veraticus/mailsift/internal/model"
)

// ExtractCategory maps free text onto the taxonomy. An exact match wins;
// otherwise the first category, in taxonomy order, that appears as a whole
// word or phrase is chosen; otherwise the catch-all. When the text carries a
// "Chosen label:" line that line is searched before the whole text.
func ExtractCategory(raw string, t *model.Taxonomy) model.Category {
	if chosen, _ := ParseChosen(raw); chosen != "" {
		if cat, ok := matchCategory(chosen, t); ok {
			return cat
		}
	}
	if cat, ok := matchCategory(raw, t); ok {
		return cat
	}
	return t.CatchAll()
}

func matchCategory(raw string, t *model.Taxonomy) (model.Category, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if t.Contains(model.Category(trimmed)) {
		return model.Category(trimmed), true
	}

	lower := strings.ToLower(trimmed)
	for i, re := range wholeWordPatterns(t) {
		if re.MatchString(lower) {
			return t.Categories()[i], true
		}
	}
	return "", false
}

// categoryPatterns holds the compiled whole-word pattern of every category,
// in taxonomy order, per taxonomy.
var categoryPatterns sync.Map // map[*model.Taxonomy][]*regexp.Regexp

func wholeWordPatterns(t *model.Taxonomy) []*regexp.Regexp {
	if cached, ok := categoryPatterns.Load(t); ok {
		return cached.([]*regexp.Regexp)
	}
	cats := t.Categories()
	patterns := make([]*regexp.Regexp, len(cats))
	for i, c := range cats {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(string(c))) + `\b`)
	}
	actual, _ := categoryPatterns.LoadOrStore(t, patterns)
	return actual.([]*regexp.Regexp)
}

// ParseChosen reads the "Chosen label:" and "Reason:" lines of a topic
// answer. Either may be empty.
func ParseChosen(raw string) (label, reason string) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "chosen label:"):
			label = strings.TrimSpace(line[len("chosen label:"):])
		case strings.HasPrefix(lower, "reason"):
			if _, after, ok := strings.Cut(line, ":"); ok {
				reason = strings.TrimSpace(after)
			}
		}
	}
	return label, reason
}

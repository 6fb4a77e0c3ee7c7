// Package topic picks a Level-2 topic for an email. The Composer scores
// topics by keyword hits plus a bias keyed on the email's Level-1 source
// label; Decide maps obligation markers extracted by a model onto a topic.
package topic

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/Veraticus/mailsift/internal/model"
)

// Keyword is one scoring cue. Plain keywords match as substrings of the
// lowercased text; regex keywords are searched.
type Keyword struct {
	Text  string
	Regex bool
}

// BiasTable maps a Level-1 source label to per-topic bias constants.
type BiasTable map[string]map[model.Category]float64

// Result is the composer's pick together with the table it came from.
type Result struct {
	Category model.Category
	Scores   []model.TopicScore
	Score    float64
}

type keywordRef struct {
	category model.Category
	text     string
}

type regexRef struct {
	re       *regexp.Regexp
	category model.Category
	text     string
}

// Composer scores text against per-topic keyword sets. Safe for concurrent
// use.
type Composer struct {
	taxonomy *model.Taxonomy
	matcher  *ahocorasick.Matcher
	bias     map[string]map[model.Category]float64
	plain    []keywordRef
	regexes  []regexRef
	mu       sync.Mutex
}

// NewComposer builds a composer. Every category named in keywords or bias
// must belong to the taxonomy.
func NewComposer(taxonomy *model.Taxonomy, keywords map[model.Category][]Keyword, bias BiasTable) (*Composer, error) {
	c := &Composer{
		taxonomy: taxonomy,
		bias:     make(map[string]map[model.Category]float64, len(bias)),
	}

	// Walk in taxonomy order so keyword indices are stable.
	for _, cat := range taxonomy.Categories() {
		for _, kw := range keywords[cat] {
			text := strings.ToLower(strings.TrimSpace(kw.Text))
			if text == "" {
				continue
			}
			if kw.Regex {
				re, err := regexp.Compile("(?i)" + kw.Text)
				if err != nil {
					return nil, fmt.Errorf("failed to compile keyword %q for %s: %w", kw.Text, cat, err)
				}
				c.regexes = append(c.regexes, regexRef{category: cat, text: kw.Text, re: re})
				continue
			}
			c.plain = append(c.plain, keywordRef{category: cat, text: text})
		}
	}
	for cat := range keywords {
		if !taxonomy.Contains(cat) {
			return nil, fmt.Errorf("keyword category %q is not in taxonomy %s", cat, taxonomy.Name)
		}
	}

	for source, row := range bias {
		key := biasKey(source)
		if c.bias[key] == nil {
			c.bias[key] = make(map[model.Category]float64, len(row))
		}
		for cat, v := range row {
			if !taxonomy.Contains(cat) {
				return nil, fmt.Errorf("bias category %q for source %q is not in taxonomy %s", cat, source, taxonomy.Name)
			}
			c.bias[key][cat] = v
		}
	}

	if len(c.plain) > 0 {
		dict := make([]string, len(c.plain))
		for i, k := range c.plain {
			dict[i] = k.text
		}
		c.matcher = ahocorasick.NewStringMatcher(dict)
	}

	return c, nil
}

// Default returns a composer over the built-in topic taxonomy.
func Default() *Composer {
	c, err := NewComposer(model.TopicTaxonomy, DefaultKeywords(), DefaultBias())
	if err != nil {
		panic(fmt.Sprintf("built-in topic tables are invalid: %v", err))
	}
	return c
}

// Taxonomy returns the topic set.
func (c *Composer) Taxonomy() *model.Taxonomy {
	return c.taxonomy
}

// Compose scores every topic and returns the arg-max. Ties go to the topic
// listed first; with no positive score the catch-all wins with score 0.
func (c *Composer) Compose(text, sourceLabel string) Result {
	hits := c.keywordHits(strings.ToLower(text))
	bias := c.bias[biasKey(sourceLabel)]

	var (
		result Result
		best   model.Category
		top    float64
	)
	for _, cat := range c.taxonomy.Categories() {
		kws := hits[cat]
		b := bias[cat]
		score := float64(len(kws)) + b
		if len(kws) > 0 || b != 0 {
			result.Scores = append(result.Scores, model.TopicScore{
				Category: cat,
				Keywords: kws,
				Score:    score,
				Bias:     b,
			})
		}
		if score > top {
			best, top = cat, score
		}
	}

	if best == "" {
		result.Category = c.taxonomy.CatchAll()
		return result
	}
	result.Category = best
	result.Score = top
	return result
}

// keywordHits returns the distinct keywords found per topic.
func (c *Composer) keywordHits(lower string) map[model.Category][]string {
	hits := make(map[model.Category][]string)
	if lower == "" {
		return hits
	}

	if c.matcher != nil {
		c.mu.Lock()
		idx := c.matcher.Match([]byte(lower))
		c.mu.Unlock()

		seen := make(map[int]bool, len(idx))
		// Report in dictionary order regardless of hit order.
		for _, i := range idx {
			if i >= 0 && i < len(c.plain) {
				seen[i] = true
			}
		}
		for i, ref := range c.plain {
			if seen[i] {
				hits[ref.category] = append(hits[ref.category], ref.text)
			}
		}
	}

	for _, r := range c.regexes {
		if r.re.MatchString(lower) {
			hits[r.category] = append(hits[r.category], r.text)
		}
	}
	return hits
}

func biasKey(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}

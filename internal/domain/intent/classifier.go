package intent

import (
	"strings"

	"github.com/yanqian/shopbot/internal/domain/faq"
)

// Intent is the route a query is sent down.
type Intent string

const (
	IntentEmpty Intent = "empty"
	IntentHours Intent = "hours"
	IntentFAQ   Intent = "faq"
)

// Group matches when the query contains any of its keywords.
type Group struct {
	Name     string
	Keywords []string
}

// Rule matches when every group matches. Rules are tried in order.
type Rule struct {
	Intent Intent
	Groups []Group
}

// Result is a classification together with the keywords that fired.
type Result struct {
	Intent  Intent   `json:"intent"`
	Matched []string `json:"matched,omitempty"`
}

// DefaultRules detects "are you open right now" questions. A topic word is
// required plus either an immediacy word or the full opening-today phrase.
func DefaultRules() []Rule {
	return []Rule{
		{
			Intent: IntentHours,
			Groups: []Group{
				{Name: "topic", Keywords: []string{"hour", "open", "close", "business hours", "operating"}},
				{Name: "immediacy", Keywords: []string{"today", "now", "open now", "close now", "closing", "closing time", "what time are you open today"}},
			},
		},
	}
}

// Classifier routes queries using a rule table. Anything no rule claims is
// an FAQ question.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier; with no rules it uses DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify matches keywords as substrings of the normalized query, so
// "hour" also hits "hours" and "opening".
func (c *Classifier) Classify(text string) Result {
	normalized := strings.Join(strings.Fields(faq.Normalize(text)), " ")
	if normalized == "" {
		return Result{Intent: IntentEmpty}
	}
	for _, rule := range c.rules {
		if matched, ok := rule.match(normalized); ok {
			return Result{Intent: rule.Intent, Matched: matched}
		}
	}
	return Result{Intent: IntentFAQ}
}

func (r Rule) match(normalized string) ([]string, bool) {
	if len(r.Groups) == 0 {
		return nil, false
	}
	var matched []string
	for _, group := range r.Groups {
		hit := ""
		for _, keyword := range group.Keywords {
			if strings.Contains(normalized, keyword) {
				hit = keyword
				break
			}
		}
		if hit == "" {
			return nil, false
		}
		matched = append(matched, hit)
	}
	return matched, true
}

var defaultClassifier = NewClassifier()

// IsHoursQuery reports whether text asks about today's opening hours.
func IsHoursQuery(text string) bool {
	return defaultClassifier.Classify(text).Intent == IntentHours
}

package expand

import (
	"fmt"
	"regexp"
	"strings"

	"lecture-qa-be/pkg/ontology"
)

// Expander turns one question into a bounded set of query variants using the
// corpus ontology. Pure string work, no external calls, idempotent.
type Expander struct {
	maxVariants int
}

// NewExpander creates an expander. maxVariants caps the output including the
// original question; values below 1 fall back to 1.
func NewExpander(maxVariants int) *Expander {
	if maxVariants < 1 {
		maxVariants = 1
	}
	return &Expander{maxVariants: maxVariants}
}

var tokenPattern = regexp.MustCompile(`\b[A-Za-z]{3,4}\b`)

// Expand returns the ordered variant list. The original question is always
// first; at least one variant is always returned.
func (e *Expander) Expand(question string) []string {
	variants := []string{question}
	seen := map[string]bool{question: true}

	add := func(v string) {
		if len(variants) >= e.maxVariants {
			return
		}
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variants = append(variants, v)
	}

	// Rule 1: type codes get their long form appended in parentheses so the
	// embedding has a chance to match transcripts that spell the type out.
	expanded := question
	replaced := false
	for _, match := range tokenPattern.FindAllString(question, -1) {
		tc, ok := ontology.LookupType(match)
		if !ok {
			continue
		}
		long := fmt.Sprintf("%s (%s)", tc.Code, tc.LongForm)
		if strings.Contains(expanded, long) {
			continue
		}
		expanded = replaceToken(expanded, match, long)
		replaced = true
	}
	if replaced {
		add(expanded)
	}

	// Rule 2: broad category phrases append related-term variants.
	for _, ce := range ontology.MatchCategories(question) {
		for _, term := range ce.Related {
			add(question + " " + term)
		}
	}

	return variants
}

// replaceToken replaces the first whole-word occurrence of token.
func replaceToken(s, token, with string) string {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(token) + `\b`)
	if err != nil {
		return s
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + with + s[loc[1]:]
}

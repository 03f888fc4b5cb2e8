package rank

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lecture-qa-be/pkg/ontology"
	"lecture-qa-be/pkg/rag"
)

// BoostRule is one declarative metadata boost. Matching rules compose by
// summation before the result is clamped.
type BoostRule struct {
	Name      string
	Weight    float64
	Predicate func(question string, c rag.Candidate) bool
}

// MetadataRanker applies the boost rule table to every candidate. Pure local
// computation: it cannot fail and has no degraded mode.
type MetadataRanker struct {
	rules    []BoostRule
	maxScore float64
}

func NewMetadataRanker(maxScore float64) *MetadataRanker {
	return &MetadataRanker{
		rules:    defaultRules(),
		maxScore: maxScore,
	}
}

// NewMetadataRankerWithRules is used by tests and non-default deployments.
func NewMetadataRankerWithRules(rules []BoostRule, maxScore float64) *MetadataRanker {
	return &MetadataRanker{rules: rules, maxScore: maxScore}
}

// Apply returns a new slice with Boosted set on every candidate. Candidates
// matching no rule keep Boosted == Similarity.
func (r *MetadataRanker) Apply(question string, candidates []rag.Candidate) []rag.Candidate {
	out := make([]rag.Candidate, len(candidates))
	for i, c := range candidates {
		boost := 0.0
		for _, rule := range r.rules {
			if rule.Predicate(question, c) {
				boost += rule.Weight
			}
		}
		c.Boosted = c.Similarity + boost
		if c.Boosted > r.maxScore {
			c.Boosted = r.maxScore
		}
		out[i] = c
	}
	return out
}

var seasonPattern = regexp.MustCompile(`(?i)season\s+(\d+)`)

const latestSeason = 7

func defaultRules() []BoostRule {
	return []BoostRule{
		{
			Name:   "type-code-mention",
			Weight: 0.15,
			Predicate: func(question string, c rag.Candidate) bool {
				for _, code := range c.Metadata.TypeCodes {
					tc, ok := ontology.LookupType(code)
					if !ok {
						continue
					}
					if containsWord(question, tc.Code) {
						return true
					}
				}
				return false
			},
		},
		{
			Name:   "season-mention",
			Weight: 0.10,
			Predicate: func(question string, c rag.Candidate) bool {
				m := seasonPattern.FindStringSubmatch(question)
				if m == nil {
					return false
				}
				season, err := strconv.Atoi(m[1])
				return err == nil && season == c.Metadata.Season
			},
		},
		{
			Name:   "category-lecture",
			Weight: 0.05,
			Predicate: func(_ string, c rag.Candidate) bool {
				return c.Metadata.Category == rag.CategoryLecture
			},
		},
		{
			Name:   "category-qa-session",
			Weight: 0.02,
			Predicate: func(_ string, c rag.Candidate) bool {
				return c.Metadata.Category == rag.CategoryQASession
			},
		},
		{
			Name:   "latest-season",
			Weight: 0.03,
			Predicate: func(_ string, c rag.Candidate) bool {
				return c.Metadata.Season == latestSeason
			},
		},
	}
}

func containsWord(s, word string) bool {
	re, err := regexp.Compile(fmt.Sprintf(`(?i)\b%s\b`, regexp.QuoteMeta(word)))
	if err != nil {
		return strings.Contains(strings.ToUpper(s), strings.ToUpper(word))
	}
	return re.MatchString(s)
}

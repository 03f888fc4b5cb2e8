package ontology

import "strings"

// CategoryExpansion maps a broad topic phrase to the related terms the lecture
// corpus actually uses for it. The expander appends one query variant per term.
type CategoryExpansion struct {
	Trigger string
	Related []string
}

var categoryExpansions = []CategoryExpansion{
	{
		Trigger: "negative behavior",
		Related: []string{"stress reaction", "weak function failure", "conflict behavior"},
	},
	{
		Trigger: "relationship",
		Related: []string{"intertype relations", "duality", "compatibility"},
	},
	{
		Trigger: "compatibility",
		Related: []string{"intertype relations", "duality"},
	},
	{
		Trigger: "compatible",
		Related: []string{"intertype relations", "duality"},
	},
	{
		Trigger: "conflict",
		Related: []string{"conflict relations", "supervision"},
	},
	{
		Trigger: "stress",
		Related: []string{"stress reaction", "vulnerable function"},
	},
}

// MatchCategories returns expansions whose trigger phrase occurs in the
// question, in table order.
func MatchCategories(question string) []CategoryExpansion {
	lower := strings.ToLower(question)
	var matched []CategoryExpansion
	for _, ce := range categoryExpansions {
		if strings.Contains(lower, ce.Trigger) {
			matched = append(matched, ce)
		}
	}
	return matched
}

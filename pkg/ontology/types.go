package ontology

import "strings"

// TypeCode describes one personality type from the lecture corpus taxonomy.
type TypeCode struct {
	Code     string
	LongForm string
	Aliases  []string
}

// typeCodes is the canonical code table. Lectures tag their content with these
// codes, and questions usually reference them by the short form only.
var typeCodes = []TypeCode{
	{Code: "ILE", LongForm: "intuitive logical extravert", Aliases: []string{"ENTP"}},
	{Code: "SEI", LongForm: "sensory ethical introvert", Aliases: []string{"ISFP"}},
	{Code: "ESE", LongForm: "ethical sensory extravert", Aliases: []string{"ESFJ"}},
	{Code: "LII", LongForm: "logical intuitive introvert", Aliases: []string{"INTJ"}},
	{Code: "SLE", LongForm: "sensory logical extravert", Aliases: []string{"ESTP"}},
	{Code: "IEI", LongForm: "intuitive ethical introvert", Aliases: []string{"INFP"}},
	{Code: "EIE", LongForm: "ethical intuitive extravert", Aliases: []string{"ENFJ"}},
	{Code: "LSI", LongForm: "logical sensory introvert", Aliases: []string{"ISTJ"}},
	{Code: "SEE", LongForm: "sensory ethical extravert", Aliases: []string{"ESFP"}},
	{Code: "ILI", LongForm: "intuitive logical introvert", Aliases: []string{"INTP"}},
	{Code: "LIE", LongForm: "logical intuitive extravert", Aliases: []string{"ENTJ"}},
	{Code: "ESI", LongForm: "ethical sensory introvert", Aliases: []string{"ISFJ"}},
	{Code: "IEE", LongForm: "intuitive ethical extravert", Aliases: []string{"ENFP"}},
	{Code: "SLI", LongForm: "sensory logical introvert", Aliases: []string{"ISTP"}},
	{Code: "LSE", LongForm: "logical sensory extravert", Aliases: []string{"ESTJ"}},
	{Code: "EII", LongForm: "ethical intuitive introvert", Aliases: []string{"INFJ"}},
}

var typeIndex = buildTypeIndex()

func buildTypeIndex() map[string]TypeCode {
	idx := make(map[string]TypeCode, len(typeCodes)*2)
	for _, tc := range typeCodes {
		idx[tc.Code] = tc
		for _, a := range tc.Aliases {
			idx[a] = tc
		}
	}
	return idx
}

// LookupType resolves a token to a type code. Matching is case-insensitive
// because users write "ile" and "Ile" as often as "ILE".
func LookupType(token string) (TypeCode, bool) {
	tc, ok := typeIndex[strings.ToUpper(strings.TrimSpace(token))]
	return tc, ok
}

// AllTypeCodes returns the canonical code list in table order.
func AllTypeCodes() []TypeCode {
	out := make([]TypeCode, len(typeCodes))
	copy(out, typeCodes)
	return out
}

package followup

import "strings"

// Marker is the delimiter the generation prompt asks the model to emit before
// a suggested next question. It is a structured contract with the prompt, not
// a guess at the model's formatting.
const Marker = "---FOLLOW_UP---"

// Extract splits a completed answer into display text and an optional
// follow-up question. The marker never reaches display text: everything from
// the first marker onward is cut. The follow-up itself is only kept when the
// trailing field is well formed (exactly one marker, one non-empty line);
// anything else fails closed and returns no follow-up.
func Extract(generated string) (answer string, followUp string) {
	idx := strings.Index(generated, Marker)
	if idx < 0 {
		return strings.TrimSpace(generated), ""
	}

	answer = strings.TrimSpace(generated[:idx])
	trailer := generated[idx+len(Marker):]

	if strings.Contains(trailer, Marker) {
		return answer, ""
	}

	question := strings.TrimSpace(trailer)
	if question == "" || strings.ContainsRune(question, '\n') {
		return answer, ""
	}

	return answer, question
}

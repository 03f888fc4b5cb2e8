package followup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name         string
		generated    string
		wantAnswer   string
		wantFollowUp string
	}{
		{
			name:         "no marker",
			generated:    "The duality pair balances each other.",
			wantAnswer:   "The duality pair balances each other.",
			wantFollowUp: "",
		},
		{
			name:         "well formed trailer",
			generated:    "The duality pair balances each other.\n---FOLLOW_UP---\nHow does supervision differ from duality?",
			wantAnswer:   "The duality pair balances each other.",
			wantFollowUp: "How does supervision differ from duality?",
		},
		{
			name:         "empty trailer fails closed",
			generated:    "Answer text.\n---FOLLOW_UP---\n   ",
			wantAnswer:   "Answer text.",
			wantFollowUp: "",
		},
		{
			name:         "multiline trailer fails closed",
			generated:    "Answer text.\n---FOLLOW_UP---\nQuestion one?\nQuestion two?",
			wantAnswer:   "Answer text.",
			wantFollowUp: "",
		},
		{
			name:         "duplicated marker fails closed",
			generated:    "Answer text.\n---FOLLOW_UP---\n---FOLLOW_UP---\nQuestion?",
			wantAnswer:   "Answer text.",
			wantFollowUp: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, followUp := Extract(tt.generated)
			assert.Equal(t, tt.wantAnswer, answer)
			assert.Equal(t, tt.wantFollowUp, followUp)
		})
	}
}

func TestMarkerNeverLeaksIntoAnswer(t *testing.T) {
	inputs := []string{
		"text ---FOLLOW_UP--- question",
		"---FOLLOW_UP---",
		"a\n---FOLLOW_UP---\nb\n---FOLLOW_UP---\nc",
	}
	for _, in := range inputs {
		answer, _ := Extract(in)
		assert.False(t, strings.Contains(answer, Marker), "marker leaked for input %q", in)
	}
}

package expand

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandAlwaysReturnsOriginalFirst(t *testing.T) {
	e := NewExpander(6)

	tests := []struct {
		name     string
		question string
	}{
		{"plain question", "What did the lecturer say about creativity?"},
		{"empty-ish question", "?"},
		{"type code question", "How does ILE handle criticism?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Expand(tt.question)
			assert.NotEmpty(t, got)
			assert.Equal(t, tt.question, got[0])
		})
	}
}

func TestExpandTypeCodeLongForm(t *testing.T) {
	e := NewExpander(6)

	got := e.Expand("How are ILE and SEI socially compatible?")

	assert.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "How are ILE and SEI socially compatible?", got[0])
	assert.Contains(t, got[1], "ILE (intuitive logical extravert)")
	assert.Contains(t, got[1], "SEI (sensory ethical introvert)")
}

func TestExpandCategoryVariants(t *testing.T) {
	e := NewExpander(6)

	got := e.Expand("Tell me about negative behavior under pressure")

	var related int
	for _, v := range got[1:] {
		if strings.Contains(v, "stress reaction") ||
			strings.Contains(v, "weak function failure") ||
			strings.Contains(v, "conflict behavior") {
			related++
		}
	}
	assert.GreaterOrEqual(t, related, 1)
}

func TestExpandIdempotentAndDeduplicated(t *testing.T) {
	e := NewExpander(6)
	q := "How are ILE and SEI socially compatible?"

	first := e.Expand(q)
	second := e.Expand(q)
	assert.Equal(t, first, second)

	seen := map[string]bool{}
	for _, v := range first {
		assert.False(t, seen[v], "duplicate variant: %s", v)
		seen[v] = true
	}
}

func TestExpandRespectsCap(t *testing.T) {
	e := NewExpander(3)

	got := e.Expand("How are ILE and SEI socially compatible in a relationship with conflict and stress?")
	assert.LessOrEqual(t, len(got), 3)
}

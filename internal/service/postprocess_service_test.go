package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClampTitlePreservesRunes(t *testing.T) {
	short := "Duality Basics"
	assert.Equal(t, short, clampTitle(short, 120))

	long := strings.Repeat("講", 130)
	got := clampTitle(long, 120)
	assert.Equal(t, 120, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

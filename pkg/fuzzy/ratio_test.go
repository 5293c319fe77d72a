package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 0},
		{"same@example.com", "same@example.com", 100},
		{"abc", "xyz", 0},
		// one substitution over 6 runes: (6-2)/6
		{"abc", "abd", 67},
		// one deletion over 43 runes: (43-1)/43
		{"john.smith@example.com", "jon.smith@example.com", 98},
		{"kitten", "sitting", 62},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Ratio(tt.a, tt.b))
			assert.Equal(t, tt.want, Ratio(tt.b, tt.a))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a@b.com", Normalize("  A@B.com "))
}

package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "life half", normalize("Half-Life"))
	assert.Equal(t, "2 portal", normalize("  PORTAL   2 "))
	assert.Equal(t, "", normalize("!!!"))
}

func TestTokenSortRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "Portal", "Portal", 100},
		{"case and order", "Portal 2", "2 portal", 100},
		{"punctuation ignored", "Half-Life", "half life", 100},
		{"empty term", "Portal", "", 0},
		{"only punctuation", "Portal", "??", 0},
		// "portal" vs "portal 2": lcs 6, lengths 6 and 8
		{"prefix", "Portal", "Portal 2", 86},
		{"unrelated", "abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSortRatio(tt.a, tt.b))
		})
	}
}

func TestTokenSortRatio_Symmetric(t *testing.T) {
	assert.Equal(t, TokenSortRatio("Counter Strike", "strike force"), TokenSortRatio("strike force", "Counter Strike"))
}

func TestLongestCommonSubsequence(t *testing.T) {
	assert.Equal(t, 4, longestCommonSubsequence([]rune("ABCBDAB"), []rune("BDCABA")))
	assert.Equal(t, 0, longestCommonSubsequence([]rune(""), []rune("abc")))
}

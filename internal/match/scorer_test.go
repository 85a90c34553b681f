package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinScorer(t *testing.T) {
	scorer := NewLevenshteinScorer()

	tests := []struct {
		name    string
		token   string
		keyword string
		want    int
	}{
		{
			name:    "exact match",
			token:   "grab",
			keyword: "grab",
			want:    100,
		},
		{
			name:    "case insensitive",
			token:   "GRAB",
			keyword: "grab",
			want:    100,
		},
		{
			name:    "whitespace trimmed",
			token:   " grab ",
			keyword: "grab",
			want:    100,
		},
		{
			name:    "one edit in five runes",
			token:   "grabs",
			keyword: "grab",
			want:    80,
		},
		{
			name:    "completely different",
			token:   "xyz",
			keyword: "abc",
			want:    0,
		},
		{
			name:    "both empty",
			token:   "",
			keyword: "",
			want:    100,
		},
		{
			name:    "empty token against keyword",
			token:   "",
			keyword: "grab",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Score(tt.token, tt.keyword))
		})
	}
}

func TestLevenshteinScorerIsSymmetric(t *testing.T) {
	scorer := NewLevenshteinScorer()
	assert.Equal(t, scorer.Score("fairprice", "fairprce"), scorer.Score("fairprce", "fairprice"))
}

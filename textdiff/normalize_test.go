package textdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		input  string
		want   []string
	}{
		{
			name:   "default splits on whitespace",
			policy: DefaultPolicy(),
			input:  "Width:  10mm\n Height: 20mm",
			want:   []string{"Width:", "10mm", "Height:", "20mm"},
		},
		{
			name:   "empty input",
			policy: DefaultPolicy(),
			input:  "",
			want:   nil,
		},
		{
			name:   "whitespace only",
			policy: DefaultPolicy(),
			input:  " \n\t ",
			want:   nil,
		},
		{
			name:   "whitespace only without collapsing",
			policy: Policy{},
			input:  " \t ",
			want:   nil,
		},
		{
			name:   "case folding",
			policy: Policy{CaseFold: true, CollapseWhitespace: true},
			input:  "HELLO World",
			want:   []string{"hello", "world"},
		},
		{
			name:   "case folding handles sharp s",
			policy: Policy{CaseFold: true, CollapseWhitespace: true},
			input:  "Straße",
			want:   []string{"strasse"},
		},
		{
			name:   "punctuation stripping",
			policy: Policy{CollapseWhitespace: true, StripPunct: true},
			input:  "Hello, world! (draft)",
			want:   []string{"Hello", "world", "draft"},
		},
		{
			name:   "punctuation-only tokens vanish",
			policy: Policy{CollapseWhitespace: true, StripPunct: true},
			input:  "--- ...",
			want:   nil,
		},
		{
			name:   "preserved line breaks",
			policy: Policy{},
			input:  "alpha beta\ngamma",
			want:   []string{"alpha", "beta", "\n", "gamma"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.policy.Tokenize(tc.input))
		})
	}
}

func TestTokenizeIsPure(t *testing.T) {
	policy := Policy{CaseFold: true, CollapseWhitespace: true, StripPunct: true}
	input := "The Quick, Brown FOX.\njumped"
	first := policy.Tokenize(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, policy.Tokenize(input))
	}
}

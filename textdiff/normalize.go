// Package textdiff turns raw text into comparison tokens and computes
// deterministic token-level edit scripts between two token sequences.
package textdiff

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Policy controls how raw text is normalized into comparison tokens.
// Identical input and policy always yield the identical token sequence.
type Policy struct {
	// CaseFold applies Unicode case folding and NFKC normalization so
	// that "Straße" and "STRASSE" compare equal.
	CaseFold bool
	// CollapseWhitespace treats any whitespace run as a single token
	// boundary. When false, line breaks are kept as their own tokens so
	// line structure participates in the diff.
	CollapseWhitespace bool
	// StripPunct removes leading and trailing punctuation from each
	// token.
	StripPunct bool
}

// DefaultPolicy matches raw extractor output: whitespace collapsed, case
// and punctuation preserved.
func DefaultPolicy() Policy {
	return Policy{CollapseWhitespace: true}
}

var foldCaser = cases.Fold()

// Tokenize splits text into comparison tokens under the policy. Empty or
// all-whitespace input yields a nil sequence.
func (p Policy) Tokenize(text string) []string {
	if p.CaseFold {
		text = foldCaser.String(norm.NFKC.String(text))
	}

	var raw []string
	if p.CollapseWhitespace {
		raw = strings.Fields(text)
	} else {
		raw = splitKeepingNewlines(text)
	}
	if len(raw) == 0 {
		return nil
	}

	if !p.StripPunct {
		return raw
	}
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimFunc(tok, unicode.IsPunct)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// splitKeepingNewlines splits on whitespace but emits a "\n" token per
// line break, so moved lines show up as structural changes.
func splitKeepingNewlines(text string) []string {
	var tokens []string
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			tokens = append(tokens, "\n")
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

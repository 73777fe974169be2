// Package text lays out card text against a pixel width budget.
//
// Layout is greedy word wrapping over measured glyph widths. Words are the
// whitespace-delimited tokens of the input; runes of scripts written
// without spaces (Han, kana, hangul) are additionally treated as one-rune
// words that join their neighbours without a space. A word wider than the
// budget on its own is placed alone on a line and never split.
package text

import (
	"strings"
	"unicode"
)

// Measurer reports the rendered size of text at one font size.
// *fonts.Metrics implements it.
type Measurer interface {
	Width(s string) int
	LineHeight() int
}

type token struct {
	text  string
	space bool // separated from the previous token by a space
}

// Wrap breaks s into lines no wider than maxWidth.
// Empty or whitespace-only input yields no lines.
func Wrap(s string, m Measurer, maxWidth int) []string {
	tokens := tokenize(s)
	if len(tokens) == 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder
	for _, tok := range tokens {
		if cur.Len() == 0 {
			cur.WriteString(tok.text)
			continue
		}
		candidate := cur.String()
		if tok.space {
			candidate += " "
		}
		candidate += tok.text
		if m.Width(candidate) > maxWidth {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(tok.text)
			continue
		}
		cur.Reset()
		cur.WriteString(candidate)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// BlockHeight is the height of n lines of lineHeight pixels with spacing
// pixels between consecutive lines. Zero lines are zero pixels tall.
func BlockHeight(n, lineHeight, spacing int) int {
	if n <= 0 {
		return 0
	}
	return n*lineHeight + (n-1)*spacing
}

func tokenize(s string) []token {
	var out []token
	for i, field := range strings.Fields(s) {
		first := true
		start := 0
		for j, r := range field {
			if !unspaced(r) {
				continue
			}
			if j > start {
				out = append(out, token{text: field[start:j], space: first && i > 0})
				first = false
			}
			out = append(out, token{text: string(r), space: first && i > 0})
			first = false
			start = j + len(string(r))
		}
		if start < len(field) {
			out = append(out, token{text: field[start:], space: first && i > 0})
		}
	}
	return out
}

// unspaced reports whether r belongs to a script that breaks between
// characters rather than at spaces.
func unspaced(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// Package mask recognizes masked tokens and matches vocabulary words
// against them.
//
// A mask uses SQL LIKE markers: '_' stands for exactly one character and
// '%' for any run of characters, possibly empty.
package mask

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

const (
	One = '_'
	Any = '%'
)

// IsMasked reports whether token contains a wildcard marker.
func IsMasked(token string) bool {
	return strings.ContainsRune(token, One) || strings.ContainsRune(token, Any)
}

// Matcher tests words against a compiled mask.
type Matcher struct {
	pattern string
	g       glob.Glob
	// hasOne is set when the mask holds a single-character marker
	hasOne bool
}

// Compile translates a mask into a Matcher.
func Compile(pattern string) (*Matcher, error) {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case One:
			b.WriteByte('?')
		case Any:
			b.WriteByte('*')
		default:
			b.WriteString(glob.QuoteMeta(string(r)))
		}
	}
	g, err := glob.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile mask %q: %w", pattern, err)
	}
	return &Matcher{
		pattern: pattern,
		g:       g,
		hasOne:  strings.ContainsRune(pattern, One),
	}, nil
}

// Match reports whether word fits the mask. '_' always consumes one
// rune, whatever its encoded width.
func (m *Matcher) Match(word string) bool {
	if m.hasOne && !isASCII(word) {
		return matchRunes([]rune(m.pattern), []rune(word))
	}
	return m.g.Match(word)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// matchRunes is LIKE matching over runes. A '%' remembers where it
// started so a failed literal run can retry one rune further on.
func matchRunes(pattern, word []rune) bool {
	p, w := 0, 0
	star, mark := -1, 0
	for w < len(word) {
		switch {
		case p < len(pattern) && pattern[p] == Any:
			star, mark = p, w
			p++
		case p < len(pattern) && (pattern[p] == One || pattern[p] == word[w]):
			p++
			w++
		case star >= 0:
			mark++
			p, w = star+1, mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == Any {
		p++
	}
	return p == len(pattern)
}

// String returns the original mask.
func (m *Matcher) String() string { return m.pattern }

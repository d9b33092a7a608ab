// Package normalize turns raw text into sentences of lowercase word tokens.
package normalize

import "strings"

// Sentence is an ordered sequence of word tokens. Sentences are never
// modified after Sentences returns them, so they can be shared across
// goroutines without locking.
type Sentence []string

// Sentences splits text into sentences and each sentence into words.
//
// Line breaks become spaces, the text is ASCII-lowercased, and sentence
// boundaries are the characters . ( ) ; and :. Segments are trimmed
// before the emptiness check, so a segment holding only spaces produces
// no sentence rather than an empty one: "a b. . c d" yields two
// sentences. Word pairs are the same either way; only sentence counts
// differ from dropping empty segments before trimming.
func Sentences(text string) []Sentence {
	text = strings.ReplaceAll(text, "\n", " ")
	text = asciiLower(text)

	var out []Sentence
	for _, segment := range strings.FieldsFunc(text, isDelimiter) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		out = append(out, Sentence(splitWords(segment)))
	}
	return out
}

// Words tokenizes a single literal sentence: ASCII-lowercase and split on
// ASCII whitespace, with no delimiter splitting.
func Words(text string) Sentence {
	return Sentence(splitWords(asciiLower(text)))
}

func isDelimiter(r rune) bool {
	switch r {
	case '.', '(', ')', ';', ':':
		return true
	}
	return false
}

// isASCIISpace matches the whitespace set used for word splitting:
// space, tab, line feed, form feed and carriage return.
func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, isASCIISpace)
}

// asciiLower lowercases A-Z only. Non-ASCII bytes are left untouched.
func asciiLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}

	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

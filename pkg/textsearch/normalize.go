// Package textsearch approximates the server's stemmed full-text search for
// local filtering: accent folding, punctuation stripping and a small
// plural-tolerant suffix stemmer. It is not a linguistic stemmer; irregular
// plurals are expected to slip through.
package textsearch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var punctuation = strings.NewReplacer(
	"&", " and ",
	"/", " ",
	`\`, " ",
	"(", " ", ")", " ", "[", " ", "]", " ",
	",", " ", ".", " ", ":", " ", ";", " ",
	"'", " ", `"`, " ", "`", " ",
	"-", " ", "_", " ",
)

// Normalize lowercases, folds diacritics, rewrites connectors and strips
// punctuation, collapsing whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(input string) string {
	lowered := strings.ToLower(input)
	// Chained transformers carry state, so each call builds its own.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		folded = lowered
	}
	return strings.Join(strings.Fields(punctuation.Replace(folded)), " ")
}

// Stem applies the suffix stemmer to every space separated word of an
// already normalized string.
func Stem(normalized string) string {
	if normalized == "" {
		return ""
	}
	words := strings.Split(normalized, " ")
	for i, w := range words {
		words[i] = stemWord(w)
	}
	return strings.Join(words, " ")
}

// stemWord measures length in runes; suffixes are ASCII so byte slicing
// of the tail stays valid.
func stemWord(word string) string {
	n := utf8.RuneCountInString(word)
	if n <= 3 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "ies") && n > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "es") && n > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	}
	return word
}

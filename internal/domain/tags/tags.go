// Package tags reduces a movie's free text to the normalized term string
// used for content similarity: lowercase, stopword-free, Snowball-stemmed.
package tags

import (
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// Build returns the tag string of a movie: "description genres language"
// lowercased, split on whitespace, stripped of surrounding punctuation,
// stopword-filtered and stemmed, joined by single spaces.
func Build(description string, genres []string, language string) string {
	parts := make([]string, 0, len(genres)+2)
	parts = append(parts, description)
	parts = append(parts, genres...)
	parts = append(parts, language)

	return strings.Join(Analyze(strings.Join(parts, " ")), " ")
}

// Analyze runs the tag pipeline over arbitrary text and returns the terms.
func Analyze(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, isPunct)
		if w == "" || IsStopword(w) {
			continue
		}
		out = append(out, snowballeng.Stem(w, false))
	}
	return out
}

func isPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

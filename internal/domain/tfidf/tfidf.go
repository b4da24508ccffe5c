// Package tfidf implements term weighting and cosine similarity over
// whitespace-separated tag strings.
//
// All structures are built per corpus and never shared between corpora:
// a Vocabulary fixes the coordinate system, and every Vector built over it
// has the same dimensionality and term order.
package tfidf

import (
	"errors"
	"math"
	"strings"
)

// ErrEmptyCorpus is returned by Fit when the corpus has no documents.
var ErrEmptyCorpus = errors.New("tfidf: empty corpus")

// Tokenize splits a tag string into terms. Empty or blank input yields nil.
func Tokenize(tags string) []string {
	return strings.Fields(tags)
}

// TermFrequency returns count(term)/len(tokens) for every distinct term.
// An empty token sequence yields an empty map.
func TermFrequency(tokens []string) map[string]float64 {
	tf := make(map[string]float64)
	if len(tokens) == 0 {
		return tf
	}

	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}

	total := float64(len(tokens))
	for term, n := range counts {
		tf[term] = float64(n) / total
	}
	return tf
}

// InverseDocumentFrequency returns idf(t) = ln(N/df(t)) + 1 for every term
// present in at least one document. The +1 keeps terms that occur in every
// document at a positive weight.
// An empty corpus yields an empty map.
func InverseDocumentFrequency(corpus [][]string) map[string]float64 {
	idf := make(map[string]float64)
	if len(corpus) == 0 {
		return idf
	}

	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{}, len(doc))
		for _, t := range doc {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(corpus))
	for term, count := range df {
		idf[term] = math.Log(n/float64(count)) + 1
	}
	return idf
}

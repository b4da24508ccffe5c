package tfidf

import (
	"math"
	"sort"
)

// Vocabulary is the lexicographically sorted set of corpus terms.
// Its zero value is an empty vocabulary.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// NewVocabulary builds a vocabulary from the keys of an IDF table.
func NewVocabulary(idf map[string]float64) *Vocabulary {
	terms := make([]string, 0, len(idf))
	for t := range idf {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &Vocabulary{terms: terms, index: index}
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Terms returns the sorted terms. The slice must not be modified.
func (v *Vocabulary) Terms() []string { return v.terms }

// Position returns the coordinate of term, or false if the term is unknown.
func (v *Vocabulary) Position(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Vectorize builds the TF-IDF vector of one document: one weight per
// vocabulary term, tf(term) * idf(term), 0 for absent terms.
// Document terms missing from the vocabulary are ignored.
func (v *Vocabulary) Vectorize(tokens []string, idf map[string]float64) Vector {
	weights := make([]float64, len(v.terms))
	for term, tf := range TermFrequency(tokens) {
		pos, ok := v.index[term]
		if !ok {
			continue
		}
		weights[pos] = tf * idf[term]
	}

	var sq float64
	for _, w := range weights {
		sq += w * w
	}
	return Vector{vocab: v, weights: weights, norm: math.Sqrt(sq)}
}

// Vector is a dense TF-IDF vector bound to the vocabulary it was built over.
type Vector struct {
	vocab   *Vocabulary
	weights []float64
	norm    float64
}

// Len returns the dimensionality (vocabulary size).
func (v Vector) Len() int { return len(v.weights) }

// Weight returns the weight at vocabulary position i.
func (v Vector) Weight(i int) float64 { return v.weights[i] }

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 { return v.norm }

// IsZero reports whether every weight is 0.
func (v Vector) IsZero() bool { return v.norm == 0 }

// Cosine returns dot(a,b) / (|a| * |b|) in [0,1].
// It returns 0 when either vector has zero norm or when the vectors were
// built over different vocabularies.
func Cosine(a, b Vector) float64 {
	if a.vocab != b.vocab || len(a.weights) != len(b.weights) {
		return 0
	}
	if a.norm == 0 || b.norm == 0 {
		return 0
	}

	var dot float64
	for i, w := range a.weights {
		dot += w * b.weights[i]
	}

	s := dot / (a.norm * b.norm)
	// rounding can push identical vectors marginally past 1
	if s > 1 {
		return 1
	}
	if s < 0 {
		return 0
	}
	return s
}

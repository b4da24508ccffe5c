package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"action", "hero", "fight"}, Tokenize("  action hero\tfight\n"))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   "))
}

func TestTermFrequency_SumsToOne(t *testing.T) {
	docs := [][]string{
		{"a"},
		{"a", "a", "b"},
		{"x", "y", "z", "x", "y", "x"},
	}
	for _, doc := range docs {
		tf := TermFrequency(doc)
		var sum float64
		for _, v := range tf {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, eps, "doc %v", doc)
	}
}

func TestTermFrequency_Counts(t *testing.T) {
	tf := TermFrequency([]string{"a", "a", "b", "c"})
	assert.InDelta(t, 0.5, tf["a"], eps)
	assert.InDelta(t, 0.25, tf["b"], eps)
	assert.InDelta(t, 0.25, tf["c"], eps)
	assert.Len(t, tf, 3)
}

func TestTermFrequency_Empty(t *testing.T) {
	tf := TermFrequency(nil)
	require.NotNil(t, tf)
	assert.Empty(t, tf)
}

func TestInverseDocumentFrequency_Smoothing(t *testing.T) {
	corpus := [][]string{
		{"a", "b", "c", "c"},
		{"b", "c"},
		{"c"},
		{"c", "d"},
	}
	idf := InverseDocumentFrequency(corpus)

	for term, w := range idf {
		assert.GreaterOrEqual(t, w, 1.0, "term %q", term)
	}
	// c is in every document
	assert.InDelta(t, 1.0, idf["c"], eps)
	assert.InDelta(t, math.Log(4.0/1.0)+1, idf["a"], eps)
	assert.InDelta(t, math.Log(4.0/2.0)+1, idf["b"], eps)

	// fixed N: weight strictly decreases as df grows
	assert.Greater(t, idf["a"], idf["b"])
	assert.Greater(t, idf["b"], idf["c"])
	assert.Equal(t, idf["a"], idf["d"])
}

func TestInverseDocumentFrequency_CountsDocumentsNotOccurrences(t *testing.T) {
	idf := InverseDocumentFrequency([][]string{{"x", "x", "x"}, {"y"}})
	assert.InDelta(t, math.Log(2)+1, idf["x"], eps)
}

func TestInverseDocumentFrequency_EmptyCorpus(t *testing.T) {
	assert.Empty(t, InverseDocumentFrequency(nil))
}

func TestInverseDocumentFrequency_AbsentTermIsZero(t *testing.T) {
	idf := InverseDocumentFrequency([][]string{{"a"}})
	assert.Zero(t, idf["missing"])
}

func TestVocabulary_SortedAndIndexed(t *testing.T) {
	v := NewVocabulary(map[string]float64{"drama": 1, "action": 1, "love": 1})
	assert.Equal(t, []string{"action", "drama", "love"}, v.Terms())
	assert.Equal(t, 3, v.Len())

	pos, ok := v.Position("drama")
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	_, ok = v.Position("comedy")
	assert.False(t, ok)
}

func TestVectorize_FullDimension(t *testing.T) {
	corpus := [][]string{{"a", "b"}, {"c"}, {}}
	idf := InverseDocumentFrequency(corpus)
	vocab := NewVocabulary(idf)

	for _, doc := range corpus {
		vec := vocab.Vectorize(doc, idf)
		assert.Equal(t, vocab.Len(), vec.Len())
	}

	vec := vocab.Vectorize([]string{"a", "b"}, idf)
	pos, _ := vocab.Position("a")
	assert.InDelta(t, 0.5*idf["a"], vec.Weight(pos), eps)
	pos, _ = vocab.Position("c")
	assert.Zero(t, vec.Weight(pos))
}

func TestVectorize_UnknownTermsIgnored(t *testing.T) {
	idf := map[string]float64{"a": 1}
	vocab := NewVocabulary(idf)
	vec := vocab.Vectorize([]string{"zzz"}, idf)
	assert.True(t, vec.IsZero())
}

func TestCosine_SelfIsOne(t *testing.T) {
	m, err := FitTags([]string{"space war robot robot", "romance paris", "war"})
	require.NoError(t, err)
	for i := 0; i < m.Len(); i++ {
		assert.InDelta(t, 1.0, m.Similarity(i, i), eps, "doc %d", i)
	}
}

func TestCosine_Symmetric(t *testing.T) {
	m, err := FitTags([]string{
		"space war robot robot",
		"war drama soldier",
		"robot comedy",
		"",
	})
	require.NoError(t, err)
	for i := 0; i < m.Len(); i++ {
		for j := 0; j < m.Len(); j++ {
			assert.Equal(t, m.Similarity(i, j), m.Similarity(j, i), "pair %d,%d", i, j)
		}
	}
}

func TestCosine_Range(t *testing.T) {
	m, err := FitTags([]string{"a b c", "b c d", "d e", "a a a e"})
	require.NoError(t, err)
	for i := 0; i < m.Len(); i++ {
		for j := 0; j < m.Len(); j++ {
			s := m.Similarity(i, j)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	m, err := FitTags([]string{"action hero", ""})
	require.NoError(t, err)
	assert.True(t, m.Vector(1).IsZero())
	assert.Zero(t, m.Similarity(0, 1))
	assert.Zero(t, m.Similarity(1, 1))
}

func TestCosine_DifferentVocabularies(t *testing.T) {
	a, err := FitTags([]string{"x y"})
	require.NoError(t, err)
	b, err := FitTags([]string{"x y"})
	require.NoError(t, err)
	assert.Zero(t, Cosine(a.Vector(0), b.Vector(0)))
}

func TestFit_EmptyCorpus(t *testing.T) {
	_, err := Fit(nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestFit_IdenticalTagsRankFirst(t *testing.T) {
	m, err := FitTags([]string{"action hero fight", "action hero fight", "romantic drama love"})
	require.NoError(t, err)

	ranked := RankTop(m.ScoreAgainst(0), 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Index)
	assert.InDelta(t, 1.0, ranked[0].Score, eps)
	assert.Equal(t, 2, ranked[1].Index)
	assert.Zero(t, ranked[1].Score)
}

func TestModel_IDFLookup(t *testing.T) {
	m, err := FitTags([]string{"a b", "b"})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2)+1, m.IDF("a"), eps)
	assert.InDelta(t, 1.0, m.IDF("b"), eps)
	assert.Zero(t, m.IDF("nope"))
	assert.Equal(t, []string{"a", "b"}, m.Vocabulary().Terms())
}

func TestScoreAgainst_SkipsQuery(t *testing.T) {
	m, err := FitTags([]string{"a", "a", "a"})
	require.NoError(t, err)
	for _, s := range m.ScoreAgainst(1) {
		assert.NotEqual(t, 1, s.Index)
	}
}

func TestRankTop_StableTies(t *testing.T) {
	scores := []Scored{
		{Index: 0, Score: 0.5},
		{Index: 1, Score: 0.9},
		{Index: 2, Score: 0.5},
		{Index: 3, Score: 0.9},
		{Index: 4, Score: 0.1},
	}
	got := RankTop(scores, 4)
	idx := make([]int, len(got))
	for i, s := range got {
		idx[i] = s.Index
	}
	assert.Equal(t, []int{1, 3, 0, 2}, idx)
}

func TestRankTop_KLargerThanInput(t *testing.T) {
	got := RankTop([]Scored{{Index: 0, Score: 1}}, 10)
	assert.Len(t, got, 1)
}

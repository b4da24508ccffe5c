package tfidf

// Model is a TF-IDF space fitted to one corpus: IDF table, vocabulary and
// one vector per document, in corpus order.
type Model struct {
	idf     map[string]float64
	vocab   *Vocabulary
	vectors []Vector
}

// Fit computes IDF and vocabulary over corpus and vectorizes every document.
// Documents may be empty; the corpus may not.
func Fit(corpus [][]string) (*Model, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	idf := InverseDocumentFrequency(corpus)
	vocab := NewVocabulary(idf)

	vectors := make([]Vector, len(corpus))
	for i, doc := range corpus {
		vectors[i] = vocab.Vectorize(doc, idf)
	}

	return &Model{idf: idf, vocab: vocab, vectors: vectors}, nil
}

// FitTags tokenizes each tag string and fits a model over the result.
func FitTags(tags []string) (*Model, error) {
	corpus := make([][]string, len(tags))
	for i, t := range tags {
		corpus[i] = Tokenize(t)
	}
	return Fit(corpus)
}

// Len returns the number of documents.
func (m *Model) Len() int { return len(m.vectors) }

// Vocabulary returns the model vocabulary.
func (m *Model) Vocabulary() *Vocabulary { return m.vocab }

// IDF returns the weight of term, 0 for terms outside the corpus.
func (m *Model) IDF(term string) float64 { return m.idf[term] }

// Vector returns the vector of document i.
func (m *Model) Vector(i int) Vector { return m.vectors[i] }

// Similarity returns the cosine similarity of documents i and j.
func (m *Model) Similarity(i, j int) float64 {
	return Cosine(m.vectors[i], m.vectors[j])
}

// Scored pairs a document position with its similarity to a query document.
type Scored struct {
	Index int
	Score float64
}

// ScoreAgainst scores document query against every other document, in
// corpus order. The query document itself is skipped.
func (m *Model) ScoreAgainst(query int) []Scored {
	out := make([]Scored, 0, len(m.vectors))
	q := m.vectors[query]
	for i, v := range m.vectors {
		if i == query {
			continue
		}
		out = append(out, Scored{Index: i, Score: Cosine(q, v)})
	}
	return out
}

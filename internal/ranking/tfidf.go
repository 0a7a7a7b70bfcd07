package ranking

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// termPattern keeps word runs of two or more characters.
var termPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// tfidf is a vectorizer fitted on one corpus. Terms are sorted so vector
// positions are stable for a given corpus.
type tfidf struct {
	terms []string
	index map[string]int
	idf   []float64
}

func tokenize(doc string) []string {
	return termPattern.FindAllString(strings.ToLower(doc), -1)
}

// fitTransform learns the vocabulary and smoothed idf weights of docs and
// returns one L2-normalized vector per document.
func fitTransform(docs []string) (*tfidf, [][]float64) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = tokenize(doc)
		seen := make(map[string]struct{}, len(tokenized[i]))
		for _, term := range tokenized[i] {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	model := &tfidf{
		terms: make([]string, 0, len(df)),
		index: make(map[string]int, len(df)),
	}
	for term := range df {
		model.terms = append(model.terms, term)
	}
	sort.Strings(model.terms)

	n := float64(len(docs))
	model.idf = make([]float64, len(model.terms))
	for i, term := range model.terms {
		model.index[term] = i
		model.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i, terms := range tokenized {
		vectors[i] = model.vector(terms)
	}
	return model, vectors
}

func (m *tfidf) vector(terms []string) []float64 {
	vec := make([]float64, len(m.terms))
	for _, term := range terms {
		if idx, ok := m.index[term]; ok {
			vec[idx]++
		}
	}

	floats.Mul(vec, m.idf)
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

// cosine returns the cosine similarity of a and b clamped to [0, 1]. A zero
// vector is dissimilar to everything.
func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}

	sim := floats.Dot(a, b) / (na * nb)
	switch {
	case sim < 0:
		return 0
	case sim > 1:
		return 1
	default:
		return sim
	}
}

// Package vectorizer fits a bounded TF-IDF vocabulary over normalized
// documents and projects text onto it as sparse vectors.
package vectorizer

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrEmptyCorpus is returned by Fit when no document contributes a term.
var ErrEmptyCorpus = errors.New("vectorizer: corpus has no terms")

const (
	// DefaultMaxFeatures bounds the vocabulary size.
	DefaultMaxFeatures = 5000
	// DefaultMinTokenLength skips single-rune tokens.
	DefaultMinTokenLength = 2
)

// Options controls vocabulary selection and weighting.
type Options struct {
	// MaxFeatures keeps the top-K terms by corpus frequency. Zero or less
	// means DefaultMaxFeatures.
	MaxFeatures int
	// MinTokenLength ignores shorter tokens, counted in runes. Zero means
	// every token is kept.
	MinTokenLength int
	// Normalize scales every transformed vector to unit euclidean length.
	Normalize bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxFeatures:    DefaultMaxFeatures,
		MinTokenLength: DefaultMinTokenLength,
		Normalize:      true,
	}
}

// TFIDF is a fitted vectorizer. It is immutable after Fit and safe for
// concurrent use.
type TFIDF struct {
	vocab     *Vocabulary
	idf       []float64
	minLen    int
	normalize bool
	numDocs   int
}

type termStat struct {
	term  string
	count int
	docs  *roaring.Bitmap
}

// Fit selects the MaxFeatures most frequent terms of corpus and computes a
// smoothed inverse document frequency for each: ln((1+n)/(1+df)) + 1.
// Frequency ties are broken lexicographically and the selected terms are
// stored in lexicographic order.
func Fit(corpus []string, opts Options) (*TFIDF, error) {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}

	stats := make(map[string]*termStat)
	for docID, doc := range corpus {
		for _, term := range tokenize(doc, opts.MinTokenLength) {
			st, ok := stats[term]
			if !ok {
				st = &termStat{term: term, docs: roaring.New()}
				stats[term] = st
			}
			st.count++
			st.docs.Add(uint32(docID))
		}
	}
	if len(stats) == 0 {
		return nil, ErrEmptyCorpus
	}

	ranked := make([]*termStat, 0, len(stats))
	for _, st := range stats {
		ranked = append(ranked, st)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].term < ranked[j].term
	})
	if len(ranked) > opts.MaxFeatures {
		ranked = ranked[:opts.MaxFeatures]
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].term < ranked[j].term
	})

	n := float64(len(corpus))
	terms := make([]string, len(ranked))
	idf := make([]float64, len(ranked))
	for i, st := range ranked {
		terms[i] = st.term
		df := float64(st.docs.GetCardinality())
		idf[i] = math.Log((1+n)/(1+df)) + 1
	}

	return &TFIDF{
		vocab:     newVocabulary(terms),
		idf:       idf,
		minLen:    opts.MinTokenLength,
		normalize: opts.Normalize,
		numDocs:   len(corpus),
	}, nil
}

// Transform maps doc onto the fitted vocabulary. Terms outside the
// vocabulary are ignored; a document with no known terms yields the zero
// vector.
func (t *TFIDF) Transform(doc string) Vector {
	counts := make(map[int]int)
	for _, term := range tokenize(doc, t.minLen) {
		if i, ok := t.vocab.Index(term); ok {
			counts[i]++
		}
	}

	v := Vector{
		Dim:     t.vocab.Len(),
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for i := range counts {
		v.Indices = append(v.Indices, i)
	}
	sort.Ints(v.Indices)
	for _, i := range v.Indices {
		v.Values = append(v.Values, float64(counts[i])*t.idf[i])
	}

	if t.normalize {
		if norm := v.Norm(); norm > 0 {
			for k := range v.Values {
				v.Values[k] /= norm
			}
		}
	}
	return v
}

// TransformAll transforms every document in order.
func (t *TFIDF) TransformAll(docs []string) []Vector {
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = t.Transform(doc)
	}
	return out
}

// Vocabulary returns the fitted vocabulary.
func (t *TFIDF) Vocabulary() *Vocabulary {
	return t.vocab
}

// IDF returns the inverse document frequency of term.
func (t *TFIDF) IDF(term string) (float64, bool) {
	i, ok := t.vocab.Index(term)
	if !ok {
		return 0, false
	}
	return t.idf[i], true
}

// Dim returns the length of transformed vectors.
func (t *TFIDF) Dim() int {
	return t.vocab.Len()
}

// NumDocuments returns the size of the corpus the vectorizer was fitted on.
func (t *TFIDF) NumDocuments() int {
	return t.numDocs
}

func tokenize(doc string, minLen int) []string {
	fields := strings.Fields(doc)
	if minLen <= 1 {
		return fields
	}
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLen {
			out = append(out, f)
		}
	}
	return out
}

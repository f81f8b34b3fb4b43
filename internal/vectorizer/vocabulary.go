package vectorizer

// Vocabulary is the ordered, immutable set of terms selected at fit time.
type Vocabulary struct {
	terms []string
	index map[string]int
}

func newVocabulary(terms []string) *Vocabulary {
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &Vocabulary{terms: terms, index: index}
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Index returns the slot of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term stored in slot i.
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Terms returns a copy of the terms in slot order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

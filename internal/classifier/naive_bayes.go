// Package classifier implements a multinomial naive Bayes model over sparse
// TF-IDF vectors.
package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/mikey/nb-spam-filter/internal/vectorizer"
)

var (
	// ErrNoSamples is returned when Fit receives no training vectors.
	ErrNoSamples = errors.New("classifier: no training samples")
	// ErrLengthMismatch is returned when vectors and classes differ in length.
	ErrLengthMismatch = errors.New("classifier: vectors and classes differ in length")
	// ErrMissingClass is returned when a class has no training samples.
	ErrMissingClass = errors.New("classifier: class has no training samples")
	// ErrInvalidClass is returned for a class index outside [0, numClasses).
	ErrInvalidClass = errors.New("classifier: class index out of range")
	// ErrInvalidAlpha is returned for a non-positive smoothing constant.
	ErrInvalidAlpha = errors.New("classifier: smoothing alpha must be positive")
	// ErrDimensionMismatch is returned when training vectors differ in length.
	ErrDimensionMismatch = errors.New("classifier: vector dimensions differ")
)

// DefaultAlpha is the additive (Laplace) smoothing constant.
const DefaultAlpha = 1.0

// Options configures Fit.
type Options struct {
	Alpha float64
}

// MultinomialNB holds per-class term log-likelihoods and log-priors. It is
// immutable after Fit and safe for concurrent use.
type MultinomialNB struct {
	numClasses     int
	dim            int
	classCounts    []int
	logPriors      []float64
	featureLogProb [][]float64
}

// Fit estimates class priors from label frequencies and per-class term
// likelihoods with additive smoothing:
//
//	P(t|c) = (w(t,c) + alpha) / (sum_t w(t,c) + alpha*|V|)
//
// where w(t,c) is the summed weight of term t across vectors of class c.
// Classes are indices in [0, numClasses) and every class must occur.
func Fit(vectors []vectorizer.Vector, classes []int, numClasses int, opts Options) (*MultinomialNB, error) {
	if len(vectors) == 0 {
		return nil, ErrNoSamples
	}
	if len(vectors) != len(classes) {
		return nil, fmt.Errorf("%w: %d vectors, %d classes", ErrLengthMismatch, len(vectors), len(classes))
	}
	alpha := opts.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if alpha < 0 || math.IsNaN(alpha) {
		return nil, ErrInvalidAlpha
	}

	dim := vectors[0].Dim
	counts := make([]int, numClasses)
	weights := make([][]float64, numClasses)
	for c := range weights {
		weights[c] = make([]float64, dim)
	}

	for i, v := range vectors {
		c := classes[i]
		if c < 0 || c >= numClasses {
			return nil, fmt.Errorf("%w: %d", ErrInvalidClass, c)
		}
		if v.Dim != dim {
			return nil, fmt.Errorf("%w: %d and %d", ErrDimensionMismatch, dim, v.Dim)
		}
		counts[c]++
		for k, idx := range v.Indices {
			weights[c][idx] += v.Values[k]
		}
	}

	m := &MultinomialNB{
		numClasses:     numClasses,
		dim:            dim,
		classCounts:    counts,
		logPriors:      make([]float64, numClasses),
		featureLogProb: make([][]float64, numClasses),
	}

	total := float64(len(vectors))
	for c := 0; c < numClasses; c++ {
		if counts[c] == 0 {
			return nil, fmt.Errorf("%w: %d", ErrMissingClass, c)
		}
		m.logPriors[c] = math.Log(float64(counts[c]) / total)

		var sum float64
		for _, w := range weights[c] {
			sum += w
		}
		denom := math.Log(sum + alpha*float64(dim))

		m.featureLogProb[c] = make([]float64, dim)
		for t, w := range weights[c] {
			m.featureLogProb[c][t] = math.Log(w+alpha) - denom
		}
	}

	return m, nil
}

// JointLogLikelihood returns log P(c) + sum_t x_t log P(t|c) for every class.
func (m *MultinomialNB) JointLogLikelihood(v vectorizer.Vector) []float64 {
	jll := make([]float64, m.numClasses)
	copy(jll, m.logPriors)
	for k, idx := range v.Indices {
		if idx < 0 || idx >= m.dim {
			continue
		}
		x := v.Values[k]
		for c := 0; c < m.numClasses; c++ {
			jll[c] += x * m.featureLogProb[c][idx]
		}
	}
	return jll
}

// Predict returns the most probable class and the normalized posterior
// distribution. Ties go to the lowest class index; the zero vector yields
// the majority class.
func (m *MultinomialNB) Predict(v vectorizer.Vector) (int, []float64) {
	jll := m.JointLogLikelihood(v)

	best := 0
	for c := 1; c < len(jll); c++ {
		if jll[c] > jll[best] {
			best = c
		}
	}

	// log-sum-exp around the maximum keeps exp() in range.
	var sum float64
	for _, l := range jll {
		sum += math.Exp(l - jll[best])
	}
	logNorm := jll[best] + math.Log(sum)

	probs := make([]float64, len(jll))
	for c, l := range jll {
		probs[c] = math.Exp(l - logNorm)
	}
	return best, probs
}

// MajorityClass returns the class with the most training samples, lowest
// index first on ties.
func (m *MultinomialNB) MajorityClass() int {
	best := 0
	for c := 1; c < m.numClasses; c++ {
		if m.classCounts[c] > m.classCounts[best] {
			best = c
		}
	}
	return best
}

// NumClasses returns the number of classes.
func (m *MultinomialNB) NumClasses() int {
	return m.numClasses
}

// Dim returns the expected vector length.
func (m *MultinomialNB) Dim() int {
	return m.dim
}

// ClassCounts returns the number of training samples per class.
func (m *MultinomialNB) ClassCounts() []int {
	out := make([]int, len(m.classCounts))
	copy(out, m.classCounts)
	return out
}

// LogPriors returns a copy of the per-class log-priors.
func (m *MultinomialNB) LogPriors() []float64 {
	out := make([]float64, len(m.logPriors))
	copy(out, m.logPriors)
	return out
}

// FeatureLogProb returns log P(t|c).
func (m *MultinomialNB) FeatureLogProb(class, term int) float64 {
	return m.featureLogProb[class][term]
}

package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/mikey/nb-spam-filter/internal/classifier"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"github.com/mikey/nb-spam-filter/internal/vectorizer"
)

// ErrNotFitted is returned when a prediction is requested without a fitted
// pipeline.
var ErrNotFitted = errors.New("pipeline is not fitted")

// PipelineOptions configures FitPipeline.
type PipelineOptions struct {
	Vectorizer vectorizer.Options
	Classifier classifier.Options
	// Preprocessor defaults to textproc.NewPreprocessor().
	Preprocessor *textproc.Preprocessor
}

// Classification is the pure model output for one text.
type Classification struct {
	Normalized    string
	Label         Label
	Probabilities Probabilities
}

// Pipeline owns the preprocessor, the fitted vocabulary and the fitted
// model. It is created once by FitPipeline, never mutated afterwards, and
// safe for concurrent use.
type Pipeline struct {
	pre         *textproc.Preprocessor
	vec         *vectorizer.TFIDF
	model       *classifier.MultinomialNB
	fingerprint uint64
}

// FitPipeline preprocesses the training records, fits the vectorizer on
// them alone and fits the classifier on the resulting vectors.
func FitPipeline(train []Record, opts PipelineOptions) (*Pipeline, error) {
	pre := opts.Preprocessor
	if pre == nil {
		pre = textproc.NewPreprocessor()
	}

	docs := make([]string, len(train))
	classes := make([]int, len(train))
	for i, r := range train {
		idx := r.Label.Index()
		if idx < 0 {
			return nil, fmt.Errorf("record %d has invalid label %q", i, r.Label)
		}
		docs[i] = pre.Preprocess(r.Text)
		classes[i] = idx
	}

	vec, err := vectorizer.Fit(docs, opts.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}

	model, err := classifier.Fit(vec.TransformAll(docs), classes, len(Labels), opts.Classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	p := &Pipeline{pre: pre, vec: vec, model: model}
	p.fingerprint = p.computeFingerprint()
	return p, nil
}

// Normalize runs the preprocessor on text.
func (p *Pipeline) Normalize(text string) string {
	return p.pre.Preprocess(text)
}

// Transform normalizes text and maps it onto the fitted vocabulary.
func (p *Pipeline) Transform(text string) vectorizer.Vector {
	return p.vec.Transform(p.Normalize(text))
}

// Classify predicts the label of text. Text without any known term maps to
// the zero vector and gets the majority label.
func (p *Pipeline) Classify(text string) Classification {
	normalized := p.Normalize(text)
	return p.classifyNormalized(normalized)
}

func (p *Pipeline) classifyNormalized(normalized string) Classification {
	class, probs := p.model.Predict(p.vec.Transform(normalized))
	return Classification{
		Normalized: normalized,
		Label:      LabelAt(class),
		Probabilities: Probabilities{
			Ham:  probs[Ham.Index()],
			Spam: probs[Spam.Index()],
		},
	}
}

// VocabularySize returns the number of fitted terms.
func (p *Pipeline) VocabularySize() int {
	return p.vec.Dim()
}

// Vectorizer returns the fitted vectorizer.
func (p *Pipeline) Vectorizer() *vectorizer.TFIDF {
	return p.vec
}

// Model returns the fitted classifier.
func (p *Pipeline) Model() *classifier.MultinomialNB {
	return p.model
}

// Fingerprint identifies the fitted parameters. Two pipelines fitted on the
// same data with the same options share a fingerprint.
func (p *Pipeline) Fingerprint() string {
	return fmt.Sprintf("%016x", p.fingerprint)
}

// CacheKey returns the prediction cache key for an already normalized text.
func (p *Pipeline) CacheKey(normalized string) string {
	return fmt.Sprintf("%016x:%016x", p.fingerprint, xxhash.Sum64String(normalized))
}

func (p *Pipeline) computeFingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8)
	writeFloat := func(f float64) {
		buf = binary.LittleEndian.AppendUint64(buf[:0], math.Float64bits(f))
		_, _ = d.Write(buf)
	}

	vocab := p.vec.Vocabulary()
	for i := 0; i < vocab.Len(); i++ {
		term := vocab.Term(i)
		_, _ = d.WriteString(term)
		_, _ = d.Write([]byte{0})
		idf, _ := p.vec.IDF(term)
		writeFloat(idf)
	}
	for c, prior := range p.model.LogPriors() {
		writeFloat(prior)
		for t := 0; t < p.model.Dim(); t++ {
			writeFloat(p.model.FeatureLogProb(c, t))
		}
	}
	return d.Sum64()
}

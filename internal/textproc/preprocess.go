// Package textproc normalizes raw message text into the token stream the
// vectorizer consumes.
package textproc

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// asciiPunctuation mirrors the classic printable punctuation set.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// maxStemPasses bounds the fixed-point stemming loop.
const maxStemPasses = 8

// StemFunc reduces a single lowercase token to its stem.
type StemFunc func(token string) string

// Preprocessor lowercases, strips punctuation, tokenizes on whitespace,
// drops stopwords and stems. It holds no learned state and is safe for
// concurrent use.
type Preprocessor struct {
	stopwords map[string]struct{}
	stem      StemFunc
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithStopwords replaces the stopword set.
func WithStopwords(words []string) Option {
	return func(p *Preprocessor) {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = struct{}{}
		}
		p.stopwords = set
	}
}

// WithStemmer replaces the stemming algorithm.
func WithStemmer(stem StemFunc) Option {
	return func(p *Preprocessor) {
		p.stem = stem
	}
}

// NewPreprocessor creates a Preprocessor with the english stopword list and
// the snowball english stemmer unless overridden.
func NewPreprocessor(opts ...Option) *Preprocessor {
	p := &Preprocessor{
		stopwords: DefaultStopwords(),
		stem:      SnowballStem,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SnowballStem stems an english token. Tokens the stemmer rejects are
// returned unchanged.
func SnowballStem(token string) string {
	stemmed, err := snowball.Stem(token, "english", true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}

// Preprocess returns the normalized tokens joined by single spaces. Empty
// input yields an empty string.
func (p *Preprocessor) Preprocess(text string) string {
	return strings.Join(p.Tokens(text), " ")
}

// Tokens returns the normalized token sequence for text.
//
// Stems are iterated to a fixed point and stopwords are dropped both before
// and after stemming, so feeding the output back in returns it unchanged.
func (p *Preprocessor) Tokens(text string) []string {
	if text == "" {
		return nil
	}

	lowered := cases.Lower(language.Und).String(text)
	stripped := StripPunctuation(lowered)

	fields := strings.Fields(stripped)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if p.isStopword(field) {
			continue
		}
		stem := p.stemToFixedPoint(field)
		if stem == "" || p.isStopword(stem) {
			continue
		}
		tokens = append(tokens, stem)
	}
	return tokens
}

func (p *Preprocessor) isStopword(token string) bool {
	_, ok := p.stopwords[token]
	return ok
}

func (p *Preprocessor) stemToFixedPoint(token string) string {
	current := token
	for i := 0; i < maxStemPasses; i++ {
		next := strings.ToLower(p.stem(current))
		if next == current {
			return current
		}
		current = next
	}
	return current
}

// StripPunctuation deletes ASCII punctuation and any rune in the unicode
// punctuation categories. Nothing is substituted, so "don't" becomes "dont".
func StripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, text)
}

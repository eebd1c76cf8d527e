// Package textproc turns raw text into the term sequence used for feature
// extraction: case folding, accent stripping, tokenization, stop-word removal
// and n-gram expansion.
package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options configures an Analyzer. It is persisted with the fitted feature
// space so that inference analyzes text exactly as training did.
type Options struct {
	Lowercase      bool   `msgpack:"lowercase" json:"lowercase"`
	StripAccents   bool   `msgpack:"strip_accents" json:"strip_accents"`
	StopWords      string `msgpack:"stop_words" json:"stop_words"`
	NGramMin       int    `msgpack:"ngram_min" json:"ngram_min"`
	NGramMax       int    `msgpack:"ngram_max" json:"ngram_max"`
	MinTokenLength int    `msgpack:"min_token_length" json:"min_token_length"`
}

// DefaultOptions returns unigram+bigram analysis of English text
func DefaultOptions() Options {
	return Options{
		Lowercase:      true,
		StripAccents:   true,
		StopWords:      "english",
		NGramMin:       1,
		NGramMax:       2,
		MinTokenLength: 2,
	}
}

// Analyzer is safe for concurrent use; it holds no per-call state.
type Analyzer struct {
	opts Options
	stop map[string]struct{}
}

// New creates an Analyzer. Out-of-range n-gram bounds are clamped to 1.
func New(opts Options) *Analyzer {
	if opts.NGramMin < 1 {
		opts.NGramMin = 1
	}
	if opts.NGramMax < opts.NGramMin {
		opts.NGramMax = opts.NGramMin
	}
	if opts.MinTokenLength < 1 {
		opts.MinTokenLength = 1
	}
	return &Analyzer{
		opts: opts,
		stop: StopWords(opts.StopWords),
	}
}

// Options returns the analyzer configuration
func (a *Analyzer) Options() Options {
	return a.opts
}

// Normalize applies case folding and accent stripping
func (a *Analyzer) Normalize(text string) string {
	if a.opts.StripAccents {
		text = StripAccents(text)
	}
	if a.opts.Lowercase {
		text = cases.Fold().String(text)
	}
	return text
}

// Tokens splits normalized text into word tokens and drops stop words
func (a *Analyzer) Tokens(text string) []string {
	fields := strings.FieldsFunc(a.Normalize(text), func(r rune) bool {
		return !isWordRune(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < a.opts.MinTokenLength {
			continue
		}
		if _, ok := a.stop[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Terms returns every n-gram of text within the configured range.
// N-grams are built after stop-word removal and joined with a single space.
func (a *Analyzer) Terms(text string) []string {
	tokens := a.Tokens(text)
	if a.opts.NGramMax == 1 && a.opts.NGramMin == 1 {
		return tokens
	}
	var terms []string
	for n := a.opts.NGramMin; n <= a.opts.NGramMax; n++ {
		terms = append(terms, NGrams(n, tokens)...)
	}
	return terms
}

// NGrams joins every run of n consecutive tokens. It returns nil when there
// are fewer than n tokens.
func NGrams(n int, tokens []string) []string {
	if n < 1 || len(tokens) < n {
		return nil
	}
	if n == 1 {
		out := make([]string, len(tokens))
		copy(out, tokens)
		return out
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

// StripAccents decomposes text and removes combining marks, so "café" becomes "cafe"
func StripAccents(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

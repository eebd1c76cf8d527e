// Package normalize brings input text into the training language before
// feature extraction.
package normalize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/service"
)

// DefaultTimeout bounds a single translation
const DefaultTimeout = 5 * time.Second

// Normalizer rewrites text into the language the model was trained on
type Normalizer interface {
	Normalize(ctx context.Context, text string) (string, error)
}

// Translating delegates to an external translator with a bounded timeout.
// Any failure, including the timeout, is reported as
// ErrTranslationUnavailable; the input is never passed through untranslated.
type Translating struct {
	translator service.Translator
	target     string
	timeout    time.Duration
}

// NewTranslating creates a translating normalizer for the target language
func NewTranslating(translator service.Translator, target string, timeout time.Duration) *Translating {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Translating{translator: translator, target: target, timeout: timeout}
}

type translation struct {
	text string
	err  error
}

// Normalize translates text from an auto-detected language into the target
func (n *Translating) Normalize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	// a translator that ignores ctx still cannot hold the caller past the timeout
	done := make(chan translation, 1)
	go func() {
		out, err := n.translator.Translate(ctx, text, service.AutoDetect, n.target)
		done <- translation{text: out, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("%w: %v", entity.ErrTranslationUnavailable, r.err)
		}
		if strings.TrimSpace(r.text) == "" {
			return "", fmt.Errorf("%w: empty translation", entity.ErrTranslationUnavailable)
		}
		return r.text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", entity.ErrTranslationUnavailable, ctx.Err())
	}
}

// Passthrough returns text unchanged. It is used when input is declared to be
// in the training language already.
type Passthrough struct{}

// Normalize returns text as is
func (Passthrough) Normalize(_ context.Context, text string) (string, error) {
	return text, nil
}

package client

import (
	"context"
	"errors"
	"time"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/service"
)

// LibreTranslator adapts TranslateClient to the Translator interface.
// Transient failures are retried at most maxRetries times with a linear
// backoff; the caller's context bounds the whole exchange.
type LibreTranslator struct {
	client     *TranslateClient
	maxRetries int
	backoff    time.Duration
}

// NewLibreTranslator creates a new LibreTranslator
func NewLibreTranslator(client *TranslateClient, maxRetries int, backoff time.Duration) service.Translator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &LibreTranslator{client: client, maxRetries: maxRetries, backoff: backoff}
}

// Translate translates text, retrying transient failures
func (t *LibreTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(time.Duration(attempt) * t.backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", errors.Join(lastErr, ctx.Err())
			case <-timer.C:
			}
		}

		resp, err := t.client.Translate(ctx, text, source, target)
		if err == nil {
			return resp.TranslatedText, nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			break
		}
	}
	return "", lastErr
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}

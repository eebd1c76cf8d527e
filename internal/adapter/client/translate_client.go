package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TranslateRequest represents a request to a LibreTranslate compatible service
type TranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// DetectedLanguage is reported when the source language was auto-detected
type DetectedLanguage struct {
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
}

// TranslateResponse represents the response from the translation service
type TranslateResponse struct {
	TranslatedText   string            `json:"translatedText"`
	DetectedLanguage *DetectedLanguage `json:"detectedLanguage,omitempty"`
}

// Language is one entry of the supported language list
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StatusError is returned for a non-200 response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("translation service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("translation service returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed if retried
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// TranslateClient is an HTTP client for the translation service
type TranslateClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTranslateClient creates a new translation service client
func NewTranslateClient(baseURL, apiKey string, timeout time.Duration) *TranslateClient {
	return &TranslateClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Translate sends a single text for translation
func (c *TranslateClient) Translate(ctx context.Context, text, source, target string) (*TranslateResponse, error) {
	reqBody := TranslateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: c.apiKey,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result TranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Ping checks that the service answers its language listing
func (c *TranslateClient) Ping(ctx context.Context) error {
	_, err := c.Languages(ctx)
	return err
}

// Languages lists the languages supported by the service
func (c *TranslateClient) Languages(ctx context.Context) ([]Language, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/languages", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var result []Language
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, nil
}

// Package ai holds the client for the optional text-rewriting service.
// The service speaks an Ollama-style generate API and may be absent or
// unreachable; every call is bounded by a timeout and callers fall back
// to their original text on any failure.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"insighto/internal"
	apperrors "insighto/internal/errors"
	"insighto/ports"
)

// RewriteClient calls the external rewriting service.
type RewriteClient struct {
	baseURL     string
	model       string
	timeout     time.Duration
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	log         *internal.Logger
}

// Config holds the client settings.
type Config struct {
	URL         string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// NewRewriteClient creates a rewriting client.
func NewRewriteClient(config Config) *RewriteClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &RewriteClient{
		baseURL:     strings.TrimRight(config.URL, "/"),
		model:       config.Model,
		timeout:     timeout,
		maxTokens:   maxTokens,
		temperature: config.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
		log:         internal.DefaultLogger,
	}
}

var _ ports.Rewriter = (*RewriteClient)(nil)

// Available probes the service with a short timeout so callers can skip
// rewriting entirely when the service is down.
func (c *RewriteClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Rewrite asks the service for a more natural phrasing of one insight
// text. The returned error signals the caller to keep the original text.
func (c *RewriteClient) Rewrite(ctx context.Context, text string, meta ports.RewriteContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildPrompt(text, meta)

	type requestBody struct {
		Model       string  `json:"model"`
		Prompt      string  `json:"prompt"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
	}
	payload, err := json.Marshal(requestBody{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("rewrite timeout after %v: %w", c.timeout, err)
		}
		return "", apperrors.ExternalServiceError("rewriter", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperrors.ExternalServiceError("rewriter",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	type generateResponse struct {
		Content string `json:"content"`
		Text    string `json:"text"`
	}
	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	result := gen.Content
	if result == "" {
		result = gen.Text
	}
	result = strings.TrimSpace(result)
	if result == "" {
		c.log.Debug("rewriter returned empty content, keeping original text")
		return "", apperrors.ExternalServiceError("rewriter", fmt.Errorf("empty response"))
	}
	return result, nil
}

func buildPrompt(text string, meta ports.RewriteContext) string {
	var b strings.Builder
	b.WriteString("Rephrase the following data insight as one concise, business-ready sentence. ")
	b.WriteString("Keep every number and column name exactly as given; do not add new claims.\n")
	if meta.DatasetName != "" {
		fmt.Fprintf(&b, "Dataset: %s\n", meta.DatasetName)
	}
	if meta.Category != "" {
		fmt.Fprintf(&b, "Insight kind: %s\n", meta.Category)
	}
	fmt.Fprintf(&b, "Insight: %s", text)
	return b.String()
}

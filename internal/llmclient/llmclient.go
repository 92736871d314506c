// Package llmclient is the external LLM collaborator named at its
// interface only (spec §9): "a trait with a single synchronous
// query(prompt, model) -> string method; a stub suffices for tests."
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client queries an LLM with a single prompt and returns its completion,
// used by the Transform/Generate action providers (spec §4.10) on top of
// tree.MarkNode's marker-wrapped prompt text.
type Client interface {
	Query(ctx context.Context, prompt, model string) (string, error)
}

// OpenAIClient calls the OpenAI chat completions endpoint. OPENAI_API_KEY
// authorizes the call (spec §6); a missing key is an External failure
// (spec §7 kind 4), surfaced as a plain error rather than a panic.
type OpenAIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewOpenAIClient returns a client pointed at the standard OpenAI API
// endpoint with a conservative request timeout.
func NewOpenAIClient() *OpenAIClient {
	return &OpenAIClient{
		BaseURL:    "https://api.openai.com/v1/chat/completions",
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Query implements Client.
func (c *OpenAIClient) Query(ctx context.Context, prompt, model string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding LLM request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building LLM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling LLM: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading LLM response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding LLM response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("LLM error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Stub is a fixed-response Client for tests: it never makes a network
// call, returning Response (or Err, if set) for every Query.
type Stub struct {
	Response string
	Err      error
}

// Query implements Client.
func (s Stub) Query(context.Context, string, string) (string, error) {
	return s.Response, s.Err
}

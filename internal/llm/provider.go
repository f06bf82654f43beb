package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type Provider interface {
	GetModel() string
	Complete(ctx context.Context, req Request) (string, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one single-turn chat completion.
type Request struct {
	System      string
	User        string
	Temperature float64
	// JSONMode asks the backend to constrain the reply to a JSON object.
	JSONMode  bool
	MaxTokens int
}

func (r Request) messages() []Message {
	var msgs []Message
	if r.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: r.System})
	}
	return append(msgs, Message{Role: "user", Content: r.User})
}

var SupportedProviders = []string{"openai", "ollama"}

// APIError is a non-200 reply from a backend.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s request failed with status: %d. Details: %s", e.Provider, e.StatusCode, e.Body)
}

var overloadMarkers = []string{
	"engine_overloaded",
	"rate_limit",
	"server is busy",
}

// IsOverloaded reports whether err means the backend is busy and the same
// request may succeed later.
func IsOverloaded(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, 529:
		return true
	}
	body := strings.ToLower(apiErr.Body)
	for _, marker := range overloadMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

func postJSON(ctx context.Context, client *http.Client, provider, url, apiKey string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: provider, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

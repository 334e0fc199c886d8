// Package advice is a thin client for the hosted chat-completion service
// used for running-safety advice, plus a keyword heuristic that maps reply
// text onto a severity level and concrete suggestions.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls a hosted chat-completion endpoint
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// chatRequest is the chat-completion request payload
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// ChatMessage is one turn of the conversation sent to the model
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// chatResponse is the chat-completion response payload
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates an advice client
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete sends the conversation and returns the assistant's reply text
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return "", fmt.Errorf("advice service not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.4,
		MaxTokens:   512,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != nil {
			return "", fmt.Errorf("chat service error (HTTP %d): %s", resp.StatusCode, body.Error.Message)
		}
		return "", fmt.Errorf("chat service returned HTTP %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(body.Choices) == 0 {
		return "", fmt.Errorf("chat service returned no choices")
	}

	return body.Choices[0].Message.Content, nil
}

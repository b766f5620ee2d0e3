// Package ai generates human-readable trading narratives (reports, setup
// explanations, strategy suggestions) through an OpenAI-compatible chat
// completion API. Prompts carry only values the pipeline actually computed;
// the system prompt forbids the model from inventing numbers.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tradedeck/backend/pkg/config"
	"github.com/tradedeck/backend/pkg/httputil"
	"github.com/tradedeck/backend/pkg/logger"
)

// Completer produces a completion for a system+user prompt pair. Satisfied
// by ChatClient; tests substitute a canned implementation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ChatClient talks to an OpenAI-compatible /chat/completions endpoint.
type ChatClient struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.AIConfig
}

// NewChatClient creates a chat completion client.
func NewChatClient(httpClient *httputil.Client, log *logger.Logger, cfg config.AIConfig) *ChatClient {
	return &ChatClient{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// Model returns the configured model identifier, recorded on generated
// reports for auditability.
func (c *ChatClient) Model() string {
	return c.cfg.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one system+user exchange and returns the model's reply.
func (c *ChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}

	resp, err := c.httpClient.PostJSONWithHeaders(ctx, c.cfg.BaseURL+"/chat/completions", reqBody, headers)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chat.Error != nil {
		return "", fmt.Errorf("api error %s: %s", chat.Error.Type, chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}

	content := chat.Choices[0].Message.Content
	c.logger.WithFields(map[string]interface{}{
		"model": c.cfg.Model,
		"chars": len(content),
	}).Debug("Chat completion received")

	return content, nil
}

// Package llmclient is a concrete capability.Agent backed by an
// OpenAI-compatible chat completions HTTP endpoint. It keeps the teacher's
// ChatRequest/Message/Choice wire shapes and default sampling parameters.
package llmclient

import (
	"context"
	"fmt"
	"time"

	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/clients/base"
	"github.com/inkframe/doccore/internal/config"
)

const (
	serviceName        = "llm"
	defaultTimeout     = 60 * time.Second
	defaultMaxTokens   = 4096
	defaultTemperature = 0.3
	defaultTopP        = 0.9
)

// Client is a concrete capability.Agent.
type Client struct {
	httpClient *base.HTTPClient
	model      string
}

// NewClient builds a Client for cfg.
func NewClient(cfg config.ServiceConfig) *Client {
	return &Client{
		httpClient: base.NewHTTPClient(serviceName, cfg, defaultTimeout),
		model:      cfg.Model,
	}
}

// Message is one chat completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a chat completions API request body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

// Choice is one completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token accounting for a chat completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the full chat completions API response.
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Generate implements capability.Agent.
func (c *Client) Generate(ctx context.Context, systemPrompt string, messages []capability.Message, opts capability.GenerateOptions) (string, error) {
	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}

	wireMessages := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		wireMessages = append(wireMessages, Message{Role: "system", Content: systemPrompt})
	}
	for _, m := range messages {
		wireMessages = append(wireMessages, Message{Role: m.Role, Content: m.Content})
	}

	req := ChatRequest{
		Model:       model,
		Messages:    wireMessages,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
	}

	var resp ChatResponse
	if err := c.httpClient.Post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

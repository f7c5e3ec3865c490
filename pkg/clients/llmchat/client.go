package llmchat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client defines the interface for the natural-language query assistant.
type Client interface {
	Ask(ctx context.Context, question string) (*ChatAnswer, error)
	Health(ctx context.Context) (*HealthStatus, error)
}

// ChatAnswer is the assistant's reply, optionally with a chart suggestion.
type ChatAnswer struct {
	Answer string       `json:"answer"`
	Chart  *ChartConfig `json:"chart,omitempty"`
}

// ChartConfig describes a chart the assistant suggests rendering alongside
// its textual answer.
type ChartConfig struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	XLabel string       `json:"x_label,omitempty"`
	YLabel string       `json:"y_label,omitempty"`
	Data   []ChartPoint `json:"data"`
}

// ChartPoint is one labelled value in a suggested chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// HealthStatus reports the assistant backend's readiness.
type HealthStatus struct {
	Status   string `json:"status"`
	Provider string `json:"llm_provider"`
	Model    string `json:"model"`
}

type chatClient struct {
	httpClient *resty.Client
}

// NewClient creates a client for the chat assistant service at baseURL.
func NewClient(baseURL string) Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("content-type", "application/json").
		SetTimeout(60 * time.Second)

	return &chatClient{httpClient: client}
}

type chatRequest struct {
	Question string `json:"question"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Ask forwards a question to the assistant and returns its answer.
func (c *chatClient) Ask(ctx context.Context, question string) (*ChatAnswer, error) {
	var answer ChatAnswer
	var apiErr errorResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(chatRequest{Question: question}).
		SetResult(&answer).
		SetError(&apiErr).
		Post("/chat")
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr.Detail != "" {
			return nil, fmt.Errorf("chat service returned %d: %s", resp.StatusCode(), apiErr.Detail)
		}
		return nil, fmt.Errorf("chat service returned %d", resp.StatusCode())
	}

	return &answer, nil
}

// Health checks whether the assistant backend is reachable and ready.
func (c *chatClient) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&status).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chat service returned %d", resp.StatusCode())
	}

	return &status, nil
}

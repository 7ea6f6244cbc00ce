package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"FinSight/internal/marketdata"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the chat model used when the config names none.
	DefaultModel = "gpt-4o-mini"

	completionMaxTokens   = 1500
	completionTemperature = 0.3
)

// OpenAIClient implements Completer against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIClient struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Client      *http.Client

	logger *zap.Logger
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Model:       model,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
		Client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
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

// Complete sends the prompt pair and returns the model's text. One immediate
// retry on transient failure (network error, 5xx, 429); a failure that
// survives it surfaces as an UpstreamError.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	body, err := c.post(ctx, payload)
	if err != nil && transientCompletion(err) && ctx.Err() == nil {
		c.logger.Warn("chat completion failed, retrying once", zap.Error(err))
		body, err = c.post(ctx, payload)
	}
	if err != nil {
		return "", &marketdata.UpstreamError{Provider: "openai", Err: err}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &marketdata.UpstreamError{Provider: "openai", Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Error != nil {
		return "", &marketdata.UpstreamError{Provider: "openai",
			Err: fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &marketdata.UpstreamError{Provider: "openai", Err: errors.New("empty completion")}
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read completion body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &completionStatusError{code: resp.StatusCode, body: truncateBody(string(body))}
	}
	return body, nil
}

type completionStatusError struct {
	code int
	body string
}

func (e *completionStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

func transientCompletion(err error) bool {
	var se *completionStatusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return true
}

func truncateBody(s string) string {
	if len(s) <= 200 {
		return s
	}
	return s[:200] + "..."
}

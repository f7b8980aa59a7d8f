package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/atlasiq/atlasiq/config"
)

// Client talks to any OpenAI-compatible chat-completions endpoint. The
// configured primary model is tried first; on rate limiting the configured
// fallback models are walked in order.
type Client struct {
	cfg        config.LLMConfig
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a completion client with a dedicated HTTP client.
func NewClient(cfg config.LLMConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[LLM] ", log.LstdFlags)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements Provider. Fallback models are consulted only on 429;
// any other upstream failure is returned as-is.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	candidates := append([]string{c.cfg.Model}, c.cfg.FallbackModels...)

	for i, model := range candidates {
		text, status, err := c.call(ctx, model, messages, opts)
		if err != nil {
			return "", err
		}
		switch {
		case status == http.StatusOK:
			if i > 0 {
				c.logger.Printf("fallback %s succeeded", model)
			}
			return text, nil
		case status == http.StatusTooManyRequests:
			c.logger.Printf("model %s rate-limited, trying next", model)
			continue
		default:
			return "", fmt.Errorf("completion endpoint returned status %d for model %s", status, model)
		}
	}

	c.logger.Printf("all models rate-limited (%d tried)", len(candidates))
	return "", fmt.Errorf("%w: %d models tried", ErrExhausted, len(candidates))
}

// call performs one chat-completions request. A non-200 status is reported
// through the status return, not as an error, so the caller can decide
// whether to fall back.
func (c *Client) call(ctx context.Context, model string, messages []Message, opts Options) (string, int, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", 0, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", 0, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if resp.StatusCode != http.StatusTooManyRequests {
			c.logger.Printf("completion error %d: %s", resp.StatusCode, raw)
		}
		return "", resp.StatusCode, nil
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", resp.StatusCode, fmt.Errorf("decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", resp.StatusCode, fmt.Errorf("no choices in completion response")
	}
	return out.Choices[0].Message.Content, resp.StatusCode, nil
}

// CompletePrompt is a convenience wrapper for single-turn calls with an
// optional system message.
func CompletePrompt(ctx context.Context, p Provider, system, prompt string, opts Options) (string, error) {
	var messages []Message
	if system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: system})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})
	return p.Complete(ctx, messages, opts)
}

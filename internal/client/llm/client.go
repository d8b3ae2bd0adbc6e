package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"saas-agent/internal/model"
)

// Config LLM 客户端配置
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client 大模型客户端（OpenAI 兼容接口）
type Client struct {
	cfg  Config
	http *resty.Client
	// retryWait 首次重试等待，测试中调小
	retryWait time.Duration
}

// NewClient 创建 LLM 客户端
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}
	return &Client{cfg: cfg, http: c, retryWait: 500 * time.Millisecond}
}

// Options 单次调用参数
type Options struct {
	Temperature float64
	MaxTokens   int
}

// ChatRequest 聊天请求（OpenAI 兼容）
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// StatusError 接口返回非 200
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm api error: %d %s", e.Code, e.Body)
}

// Retryable 限流与服务端错误可重试
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Chat 发送对话请求，返回大模型回复文本。未配置 API key 时直接返回 ErrLLMUnavailable。
func (c *Client) Chat(ctx context.Context, systemPrompt, userContent string, opts Options) (string, error) {
	if c.cfg.APIKey == "" || c.cfg.BaseURL == "" {
		return "", model.ErrLLMUnavailable
	}
	reqBody := ChatRequest{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryWait
	exp.Multiplier = 2
	exp.MaxInterval = 8 * c.retryWait
	retries := c.cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)

	var content string
	err := backoff.Retry(func() error {
		out, err := c.chatOnce(ctx, reqBody)
		if err != nil {
			if se, ok := err.(*StatusError); ok && !se.Retryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		content = out
		return nil
	}, policy)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrLLMUnavailable, err)
	}
	return content, nil
}

func (c *Client) chatOnce(ctx context.Context, reqBody ChatRequest) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	var chatResp ChatResponse
	if err := json.Unmarshal(resp.Body(), &chatResp); err != nil {
		return "", backoff.Permanent(fmt.Errorf("unmarshal response: %w", err))
	}
	if len(chatResp.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("empty choices"))
	}
	return chatResp.Choices[0].Message.Content, nil
}

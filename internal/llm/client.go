// Package llm talks to an OpenAI-compatible chat-completion endpoint
// (Aliyun DashScope compatible mode) to parse free text into todo fields.
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
	"time"

	"todo-platform/internal/config"
)

// ErrNotConfigured is returned when no API key is configured. No network
// call is attempted in that case.
var ErrNotConfigured = errors.New("llm: BAILIAN_API_KEY or OPENAI_API_KEY is not configured")

// ParseError reports that the model response could not be turned into a
// todo record. Transport failures are plain wrapped errors instead.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %v", e.Reason, e.Err)
	}
	return "llm: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParsedTodo is the normalized creation record produced from one sentence.
// DueDate is the model's literal string; the caller re-validates it.
type ParsedTodo struct {
	Title       string
	Description *string
	Status      string
	Priority    string
	DueDate     *string
	CategoryID  *uint
}

const systemPrompt = `你是一个待办解析助手。根据用户用自然语言描述的一句话，解析出待办任务的字段，只输出一个 JSON 对象，不要输出任何其他文字、解释或 markdown。

字段说明：
- title: 任务标题，必填，简短概括
- description: 任务描述，可选，可留空或 null
- due_date: 截止日期，格式 YYYY-MM-DD，若能从句子中推断出日期则填写，否则 null
- priority: 优先级，只能是 low / medium / high 之一，根据紧急程度推断，默认 medium

示例：用户说「明天下午 3 点和导师开会讨论开题」，若今天是 2025-02-05，则 due_date 填 2025-02-06。
输出：{"title":"与导师开会讨论开题","description":"明天下午 3 点","due_date":"2025-02-06","priority":"medium"}
若无法推断具体日期则 due_date 填 null。

只输出 JSON，不要用 ` + "```json" + ` 包裹。`

const (
	requestTimeout = 60 * time.Second
	temperature    = 0.2

	// untitledFallback is used when neither the model nor the input
	// sentence yields a title.
	untitledFallback = "未命名任务"
)

// Client calls the chat-completion endpoint. It holds no request state.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client
}

// NewClient builds a client from the configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:  cfg.LLMAPIKey,
		baseURL: strings.TrimRight(cfg.LLMBaseURL, "/"),
		model:   cfg.LLMModel,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ParseTodo sends one non-streaming completion request for the given
// sentence and normalizes the response into a creation record.
func (c *Client) ParseTodo(ctx context.Context, text string) (*ParsedTodo, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	raw, err := c.complete(ctx, text)
	if err != nil {
		return nil, err
	}
	return normalize(raw, text)
}

func (c *Client) complete(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: strings.TrimSpace(text)},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm: upstream returned status %d: %s", resp.StatusCode, snippet(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm: upstream error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200]
	}
	return s
}

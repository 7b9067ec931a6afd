package llmclient

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
)

// DefaultChatURL is the DeepSeek chat completions endpoint.
const DefaultChatURL = "https://api.deepseek.com/chat/completions"

// ChatClient calls an OpenAI-compatible Chat Completions API (DeepSeek,
// OpenAI, Groq).
type ChatClient struct {
	http    *http.Client
	apiKey  string
	model   string
	baseURL string
}

// NewChatClient creates a chat client. An empty apiKey is accepted here and
// reported as ErrMissingCredential on the first Generate call.
func NewChatClient(apiKey, model, baseURL string, timeout time.Duration) *ChatClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultChatURL
	}
	if strings.TrimSpace(model) == "" {
		model = "deepseek-chat"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ChatClient{
		http:    &http.Client{Timeout: timeout},
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		baseURL: baseURL,
	}
}

func (c *ChatClient) Name() string { return "Chat:" + c.model }
func (c *ChatClient) Close() error { return nil }

type chatReq struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float32           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type chatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt as a single user message.
func (c *ChatClient) Generate(ctx context.Context, r Request) (Response, error) {
	if c.apiKey == "" {
		return Response{}, ErrMissingCredential
	}
	body := chatReq{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: r.Prompt}},
		Temperature: r.Temperature,
	}
	if r.Format == FormatJSON {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, &TransportError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		cause := errors.New(strings.TrimSpace(string(raw)))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return Response{}, &AuthError{Provider: c.Name(), Status: resp.StatusCode, Err: cause}
		}
		return Response{}, &TransportError{Provider: c.Name(), Status: resp.StatusCode, Err: cause}
	}
	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, &TransportError{Provider: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return Response{}, ErrEmptyResponse
	}
	return Response{Text: out.Choices[0].Message.Content}, nil
}

package llmclient

import (
	"context"
	"errors"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// Cross-cutting concerns (rate limiting, logging, hooks) are applied via middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client for the Gemini API. An empty apiKey yields
// a client whose Generate returns ErrMissingCredential.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.5-flash"
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &GeminiClient{model: model}, nil
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) Generate(ctx context.Context, r Request) (Response, error) {
	if g.cli == nil {
		return Response{}, ErrMissingCredential
	}
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(r.Temperature)}
	if r.Format == FormatJSON {
		cfg.ResponseMIMEType = "application/json"
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: r.Prompt}}}},
		cfg,
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
				return Response{}, &AuthError{Provider: g.Name(), Status: apiErr.Code, Err: err}
			}
			return Response{}, &TransportError{Provider: g.Name(), Status: apiErr.Code, Err: err}
		}
		return Response{}, &TransportError{Provider: g.Name(), Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Response{}, ErrEmptyResponse
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return Response{}, ErrEmptyResponse
	}
	return Response{Text: b.String()}, nil
}

package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"eightd/internal/llmclient"
)

// Providers understood by Setup.
const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderFake     = "fake"
)

// Options selects and tunes the model backend.
type Options struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	RPS      float64
	Burst    int
	Logger   *log.Logger
}

// Setup builds wrapped clients that share one rate limit. A single Setup
// lives for the whole process; clients may be built per request.
type Setup struct {
	opts    Options
	limiter *rpsLimiter
	fake    *FakeClient

	closeOnce sync.Once
}

func NewSetup(opts Options) (*Setup, error) {
	opts.Provider = strings.ToLower(strings.TrimSpace(opts.Provider))
	if opts.Provider == "" {
		opts.Provider = ProviderDeepSeek
	}
	s := &Setup{opts: opts}
	switch opts.Provider {
	case ProviderDeepSeek, ProviderOpenAI, ProviderGemini:
	case ProviderFake:
		s.fake = NewFakeClient()
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
	s.limiter = newRPSLimiter(opts.RPS, opts.Burst)
	return s, nil
}

// Provider reports the configured backend.
func (s *Setup) Provider() string { return s.opts.Provider }

// Client returns a client for one unit of work. A non-empty apiKey overrides
// the configured credential. A missing credential is not an error here; the
// returned client fails on Generate with llmclient.ErrMissingCredential.
func (s *Setup) Client(ctx context.Context, apiKey string) (llmclient.LLMClient, error) {
	key := firstNonEmpty(apiKey, s.opts.APIKey)
	var inner llmclient.LLMClient
	switch s.opts.Provider {
	case ProviderFake:
		inner = s.fake
	case ProviderGemini:
		g, err := llmclient.NewGeminiClient(ctx, key, s.opts.Model)
		if err != nil {
			return nil, err
		}
		inner = g
	case ProviderOpenAI:
		base := firstNonEmpty(s.opts.BaseURL, "https://api.openai.com/v1/chat/completions")
		inner = llmclient.NewChatClient(key, firstNonEmpty(s.opts.Model, "gpt-4o-mini"), base, s.opts.Timeout)
	default:
		inner = llmclient.NewChatClient(key, s.opts.Model, s.opts.BaseURL, s.opts.Timeout)
	}
	return Wrap(inner,
		WithLogging(s.opts.Logger),
		sharedRateLimit(s.limiter),
		WithHooks(),
	), nil
}

// Fake returns the shared fake backend, or nil for real providers.
func (s *Setup) Fake() *FakeClient { return s.fake }

func (s *Setup) Close() {
	s.closeOnce.Do(func() { s.limiter.Stop() })
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

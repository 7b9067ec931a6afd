package llm

import (
	"context"

	"eightd/internal/llmclient"
)

// Phase names the pipeline step issuing a request.
const (
	PhaseExtract   = "extract"
	PhaseEvaluate  = "evaluate"
	PhaseTranslate = "translate"
	PhaseFiveWhys  = "five_whys"
)

// PromptHook observes every request and its outcome.
type PromptHook interface {
	Before(ctx context.Context, phase string, req llmclient.Request)
	After(ctx context.Context, phase string, resp llmclient.Response, err error)
}

type ctxKeyHook struct{}
type ctxKeyPhase struct{}

// WithPhase tags ctx with the pipeline step.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase string stored in the context.
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// ContextWithHook attaches a PromptHook used by the WithHooks middleware.
func ContextWithHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

package llmclient

import (
	"context"
	"errors"
	"fmt"
)

// Format selects the response shape requested from the model.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json_object"
)

// Request is a single prompt round trip.
type Request struct {
	Prompt      string
	Format      Format
	Temperature float32
}

// Response carries the raw model text. In JSON mode it is expected, not
// guaranteed, to be a JSON object.
type Response struct {
	Text string
}

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
	Close() error
}

var (
	// ErrMissingCredential is returned before any network I/O when no API key is configured.
	ErrMissingCredential = errors.New("llm: API key is not configured")
	ErrEmptyResponse     = errors.New("llm: empty response from model")
)

// TransportError reports that the provider could not be reached or answered
// with a non-success status other than an authentication failure.
type TransportError struct {
	Provider string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }

// AuthError reports a rejected credential. It will not resolve by repeating the call.
type AuthError struct {
	Provider string
	Status   int
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication rejected (status %d): %v", e.Provider, e.Status, e.Err)
}
func (e *AuthError) Unwrap() error { return e.Err }

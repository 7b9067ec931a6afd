package llm

import (
	"context"
	"sync"

	"eightd/internal/llmclient"
	"eightd/internal/llmtool"
)

// FakeCall records one request seen by FakeClient.
type FakeCall struct {
	Phase   string
	Request llmclient.Request
}

// FakeClient returns deterministic payloads per phase for offline runs and
// tests. Scripted responses and errors take priority over the defaults.
type FakeClient struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	respond func(phase string, req llmclient.Request) (string, error)
	calls   []FakeCall
}

func NewFakeClient() *FakeClient {
	return &FakeClient{replies: map[string]string{}, errs: map[string]error{}}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// Reply scripts the text returned for phase.
func (f *FakeClient) Reply(phase, text string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[phase] = text
	return f
}

// Fail scripts an error for phase.
func (f *FakeClient) Fail(phase string, err error) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[phase] = err
	return f
}

// Respond installs a function consulted before scripted replies.
func (f *FakeClient) Respond(fn func(phase string, req llmclient.Request) (string, error)) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond = fn
	return f
}

// Calls returns a copy of the recorded requests.
func (f *FakeClient) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CallCount returns how many requests were issued, optionally for one phase.
func (f *FakeClient) CallCount(phase string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if phase == "" {
		return len(f.calls)
	}
	n := 0
	for _, c := range f.calls {
		if c.Phase == phase {
			n++
		}
	}
	return n
}

func (f *FakeClient) Generate(ctx context.Context, req llmclient.Request) (llmclient.Response, error) {
	phase := PhaseFrom(ctx)
	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Phase: phase, Request: req})
	respond := f.respond
	reply, hasReply := f.replies[phase]
	err := f.errs[phase]
	f.mu.Unlock()

	if respond != nil {
		txt, err := respond(phase, req)
		return llmclient.Response{Text: txt}, err
	}
	if err != nil {
		return llmclient.Response{}, err
	}
	if hasReply {
		return llmclient.Response{Text: reply}, nil
	}
	return llmclient.Response{Text: defaultFakeReply(phase, req)}, nil
}

func defaultFakeReply(phase string, req llmclient.Request) string {
	switch phase {
	case PhaseExtract:
		return `{"D1_TeamLeader":"N/A","D2_5W2H":{},"D3_ICA":[],"D4_RootCause":{},"D5_Actions":[],"D6_Verification":"N/A","D7_Standardization":"N/A","D8_Conclusion":"N/A"}`
	case PhaseFiveWhys:
		return `{"five_whys":["fake why 1","fake why 2","fake why 3","fake why 4","fake why 5"],"root_cause":"fake root cause"}`
	case PhaseEvaluate:
		return "## 8D Audit (fake)\n\n### D0 & D1\n* Assessment: fake\n* Recommendation: fake\n"
	case PhaseTranslate:
		if body, ok := llmtool.SectionBody(req.Prompt, llmtool.SectionContent); ok {
			return body
		}
		return req.Prompt
	default:
		if req.Format == llmclient.FormatJSON {
			return "{}"
		}
		return ""
	}
}

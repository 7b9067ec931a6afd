package llm

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eightd/internal/llmclient"
	"eightd/internal/llmtool"
)

type recordingHook struct {
	before []string
	after  []error
}

func (h *recordingHook) Before(_ context.Context, phase string, _ llmclient.Request) {
	h.before = append(h.before, phase)
}

func (h *recordingHook) After(_ context.Context, _ string, _ llmclient.Response, err error) {
	h.after = append(h.after, err)
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next llmclient.LLMClient) llmclient.LLMClient {
			order = append(order, name)
			return next
		}
	}
	Wrap(NewFakeClient(), mark("A"), mark("B"))
	assert.Equal(t, []string{"B", "A"}, order)
}

func TestWithHooksObservesPhaseAndError(t *testing.T) {
	boom := errors.New("boom")
	fake := NewFakeClient().Fail(PhaseEvaluate, boom)
	cli := Wrap(fake, WithHooks())
	hook := &recordingHook{}
	ctx := ContextWithHook(WithPhase(context.Background(), PhaseEvaluate), hook)

	_, err := cli.Generate(ctx, llmclient.Request{Prompt: "x"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{PhaseEvaluate}, hook.before)
	require.Len(t, hook.after, 1)
	assert.ErrorIs(t, hook.after[0], boom)

	// No hook in context is a no-op.
	_, err = cli.Generate(context.Background(), llmclient.Request{Prompt: "x"})
	assert.NoError(t, err)
}

func TestWithLoggingWritesPhase(t *testing.T) {
	var buf bytes.Buffer
	cli := Wrap(NewFakeClient(), WithLogging(log.New(&buf, "", 0)))
	_, err := cli.Generate(WithPhase(context.Background(), PhaseExtract), llmclient.Request{Prompt: "one two", Format: llmclient.FormatJSON})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "LLM request (extract, FakeLLM, json_object)")
	assert.Contains(t, out, "LLM response (extract)")
}

func TestRateLimitHonoursContext(t *testing.T) {
	rl := newRPSLimiter(0.001, 1)
	defer rl.Stop()
	cli := Wrap(NewFakeClient(), sharedRateLimit(rl))

	_, err := cli.Generate(context.Background(), llmclient.Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = cli.Generate(ctx, llmclient.Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimitDisabled(t *testing.T) {
	cli := Wrap(NewFakeClient(), sharedRateLimit(newRPSLimiter(0, 0)))
	for i := 0; i < 5; i++ {
		_, err := cli.Generate(context.Background(), llmclient.Request{})
		require.NoError(t, err)
	}
	assert.NoError(t, cli.Close())
}

func TestFakeTranslateEchoesContent(t *testing.T) {
	prompt, err := llmtool.Build(llmtool.StructuredPromptSpec{Purpose: "Translate.", Content: "# Title\n\nbody"})
	require.NoError(t, err)
	fake := NewFakeClient()
	resp, err := fake.Generate(WithPhase(context.Background(), PhaseTranslate), llmclient.Request{Prompt: prompt})
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", resp.Text)
	assert.Equal(t, 1, fake.CallCount(PhaseTranslate))
	assert.Equal(t, 0, fake.CallCount(PhaseExtract))
}

func TestFakeScriptPriority(t *testing.T) {
	fake := NewFakeClient().Reply(PhaseEvaluate, "scripted")
	ctx := WithPhase(context.Background(), PhaseEvaluate)
	resp, err := fake.Generate(ctx, llmclient.Request{})
	require.NoError(t, err)
	assert.Equal(t, "scripted", resp.Text)

	fake.Respond(func(phase string, req llmclient.Request) (string, error) {
		return strings.ToUpper(phase), nil
	})
	resp, err = fake.Generate(ctx, llmclient.Request{})
	require.NoError(t, err)
	assert.Equal(t, "EVALUATE", resp.Text)
	assert.Len(t, fake.Calls(), 2)
}

func TestSetupProviders(t *testing.T) {
	_, err := NewSetup(Options{Provider: "nope"})
	assert.Error(t, err)

	s, err := NewSetup(Options{Provider: "FAKE"})
	require.NoError(t, err)
	defer s.Close()
	require.NotNil(t, s.Fake())
	cli, err := s.Client(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "FakeLLM", cli.Name())

	s2, err := NewSetup(Options{Provider: ProviderDeepSeek})
	require.NoError(t, err)
	defer s2.Close()
	cli, err = s2.Client(context.Background(), "")
	require.NoError(t, err)
	_, err = cli.Generate(context.Background(), llmclient.Request{Prompt: "x"})
	assert.ErrorIs(t, err, llmclient.ErrMissingCredential)
}

func TestCountTokens(t *testing.T) {
	assert.Equal(t, 0, CountTokens("  "))
	assert.Equal(t, 3, CountTokens("a b c"))
	assert.Equal(t, 2, CountTokens("中文测试"))
}

package workbench

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"eightd/internal/llm"
	"eightd/internal/llmclient"
)

// phaseTimer is the llm.PromptHook attached to every model-backed action. It
// sums wall time and call counts per pipeline phase for one session.
type phaseTimer struct {
	mu      sync.Mutex
	order   []string
	stats   map[string]*phaseStat
	pending map[string][]time.Time
	clock   func() time.Time
}

type phaseStat struct {
	calls  int
	failed int
	took   time.Duration
}

func newPhaseTimer() *phaseTimer {
	return &phaseTimer{
		stats:   map[string]*phaseStat{},
		pending: map[string][]time.Time{},
		clock:   time.Now,
	}
}

func (p *phaseTimer) Before(_ context.Context, phase string, _ llmclient.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending[phase] = append(p.pending[phase], p.clock())
}

func (p *phaseTimer) After(_ context.Context, phase string, _ llmclient.Response, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.stats[phase]
	if !ok {
		st = &phaseStat{}
		p.stats[phase] = st
		p.order = append(p.order, phase)
	}
	st.calls++
	if err != nil {
		st.failed++
	}
	if q := p.pending[phase]; len(q) > 0 {
		st.took += p.clock().Sub(q[0])
		p.pending[phase] = q[1:]
	}
}

// Summary renders "extract=1.2s/1 evaluate=3s/1(1 failed)" in first-seen
// phase order, or "" when no request was made.
func (p *phaseTimer) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	parts := make([]string, 0, len(p.order))
	for _, phase := range p.order {
		st := p.stats[phase]
		part := fmt.Sprintf("%s=%s/%d", phase, st.took.Round(time.Millisecond), st.calls)
		if st.failed > 0 {
			part += fmt.Sprintf("(%d failed)", st.failed)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

// trace attaches a phaseTimer to ctx; done logs what the action spent on the
// model.
func (s *Service) trace(ctx context.Context, id, action string) (context.Context, func()) {
	timer := newPhaseTimer()
	return llm.ContextWithHook(ctx, timer), func() {
		if sum := timer.Summary(); sum != "" {
			s.log.Printf("session %s: %s llm %s", strings.TrimSpace(id), action, sum)
		}
	}
}

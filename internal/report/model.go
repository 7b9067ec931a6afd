// Package report holds the in-memory 8D report under construction.
//
// Sections are independent bags of free text. The only structural rule is
// that D4 always carries exactly five why slots, so "Why N" labels are stable.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"eightd/internal/actionstatus"
)

// WhyCount is the fixed number of 5-Whys slots.
const WhyCount = 5

var ErrIndex = errors.New("report: index out of range")

type D0 struct {
	Title    string `json:"title"`
	Customer string `json:"customer"`
}

type D1 struct {
	Leader  string `json:"leader"`
	Members string `json:"members"`
}

type D2 struct {
	What  string `json:"what"`
	Where string `json:"where"`
	Desc  string `json:"desc"`
}

// FiveWhys is a model-proposed root cause chain awaiting adoption.
type FiveWhys struct {
	FiveWhys  []string `json:"five_whys"`
	RootCause string   `json:"root_cause"`
}

type D4 struct {
	Whys      [WhyCount]string `json:"whys"`
	RootCause string           `json:"root_cause"`
	Pending   *FiveWhys        `json:"ai_analysis,omitempty"`
}

// UnmarshalJSON accepts a whys list of any length and pads or truncates it
// to WhyCount slots.
func (d *D4) UnmarshalJSON(b []byte) error {
	var wire struct {
		Whys      []string  `json:"whys"`
		RootCause string    `json:"root_cause"`
		Pending   *FiveWhys `json:"ai_analysis"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*d = D4{RootCause: wire.RootCause, Pending: wire.Pending}
	copy(d.Whys[:], wire.Whys)
	return nil
}

// PermanentAction is a D5 corrective action with a planned date.
type PermanentAction struct {
	Action string              `json:"action"`
	Date   string              `json:"date"`
	Status actionstatus.Status `json:"status"`
}

type D7 struct {
	FMEA bool `json:"fmea"`
	CP   bool `json:"cp"`
	SOP  bool `json:"sop"`
}

// Model is the full report. The zero value is not ready for use; call New.
type Model struct {
	D0 D0                `json:"d0"`
	D1 D1                `json:"d1"`
	D2 D2                `json:"d2"`
	D3 []string          `json:"d3"`
	D4 D4                `json:"d4"`
	D5 []PermanentAction `json:"d5"`
	D7 D7                `json:"d7"`
	D8 map[string]any    `json:"d8"`
}

// New returns an empty report with every section initialised.
func New() *Model {
	return &Model{
		D3: []string{},
		D5: []PermanentAction{},
		D8: map[string]any{},
	}
}

func (m *Model) SetD0(v D0) { m.D0 = v }
func (m *Model) SetD1(v D1) { m.D1 = v }
func (m *Model) SetD2(v D2) { m.D2 = v }
func (m *Model) SetD7(v D7) { m.D7 = v }

// AddContainment appends an interim containment action. Blank input is ignored.
func (m *Model) AddContainment(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	m.D3 = append(m.D3, s)
	return true
}

// ClearContainment drops every D3 entry.
func (m *Model) ClearContainment() { m.D3 = []string{} }

// SetWhy writes slot i (0-based).
func (m *Model) SetWhy(i int, s string) error {
	if i < 0 || i >= WhyCount {
		return fmt.Errorf("%w: why %d", ErrIndex, i+1)
	}
	m.D4.Whys[i] = s
	return nil
}

func (m *Model) SetRootCause(s string) { m.D4.RootCause = s }

// SetPendingSuggestion replaces any earlier suggestion wholesale.
func (m *Model) SetPendingSuggestion(s FiveWhys) {
	cp := FiveWhys{FiveWhys: append([]string(nil), s.FiveWhys...), RootCause: s.RootCause}
	m.D4.Pending = &cp
}

func (m *Model) DiscardPendingSuggestion() { m.D4.Pending = nil }

// AdoptSuggestion copies the pending suggestion into the whys positionally,
// overwrites the root cause and clears the suggestion. Slots beyond the
// suggestion's length keep their values. Manual edits are overwritten.
// It reports false when there is nothing pending.
func (m *Model) AdoptSuggestion() bool {
	p := m.D4.Pending
	if p == nil {
		return false
	}
	for i := 0; i < WhyCount && i < len(p.FiveWhys); i++ {
		m.D4.Whys[i] = p.FiveWhys[i]
	}
	m.D4.RootCause = p.RootCause
	m.D4.Pending = nil
	return true
}

// AddPermanentAction appends an Open action. Blank actions are ignored.
func (m *Model) AddPermanentAction(action, date string) bool {
	if strings.TrimSpace(action) == "" {
		return false
	}
	m.D5 = append(m.D5, PermanentAction{Action: action, Date: date, Status: actionstatus.Open})
	return true
}

func (m *Model) SetPermanentActionStatus(i int, st actionstatus.Status) error {
	if i < 0 || i >= len(m.D5) {
		return fmt.Errorf("%w: permanent action %d", ErrIndex, i+1)
	}
	m.D5[i].Status = st
	return nil
}

func (m *Model) RemovePermanentAction(i int) error {
	if i < 0 || i >= len(m.D5) {
		return fmt.Errorf("%w: permanent action %d", ErrIndex, i+1)
	}
	m.D5 = append(m.D5[:i], m.D5[i+1:]...)
	return nil
}

// Clone returns a deep copy.
func (m *Model) Clone() *Model {
	out := *m
	out.D3 = append([]string{}, m.D3...)
	out.D5 = append([]PermanentAction{}, m.D5...)
	out.D8 = make(map[string]any, len(m.D8))
	for k, v := range m.D8 {
		out.D8[k] = v
	}
	if m.D4.Pending != nil {
		p := FiveWhys{FiveWhys: append([]string(nil), m.D4.Pending.FiveWhys...), RootCause: m.D4.Pending.RootCause}
		out.D4.Pending = &p
	}
	return &out
}

// Normalize fills nil sections after decoding an older payload.
func (m *Model) Normalize() {
	if m.D3 == nil {
		m.D3 = []string{}
	}
	if m.D5 == nil {
		m.D5 = []PermanentAction{}
	}
	if m.D8 == nil {
		m.D8 = map[string]any{}
	}
	for i := range m.D5 {
		m.D5[i].Status = actionstatus.ParseStatus(string(m.D5[i].Status))
	}
}

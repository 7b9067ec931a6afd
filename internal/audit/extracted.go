// Package audit holds the schema extracted from an externally authored 8D
// report and the per-session audit state built on top of it.
package audit

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"eightd/internal/actionstatus"
)

// NA marks a field the model could not resolve.
const NA = "N/A"

// ExtractedReport is the structured form of an uploaded report.
//
// JSON schema requested from the model:
//
//	{
//	  "D1_TeamLeader": "string",
//	  "D2_5W2H": {"What","When","Where","Who","Why","How","HowMuch": "string"},
//	  "D3_ICA": [{"action","owner","dueDate","status": "string"}],
//	  "D4_RootCause": {"OccurrenceRootCause","EscapeRootCause": "string"},
//	  "D5_Actions": [{"action","owner","dueDate","status": "string"}],
//	  "D6_Verification": "string",
//	  "D7_Standardization": "string",
//	  "D8_Conclusion": "string"
//	}
type ExtractedReport struct {
	D1TeamLeader      string         `json:"D1_TeamLeader"`
	D25W2H            FiveW2H        `json:"D2_5W2H"`
	D3ICA             []ActionRecord `json:"D3_ICA"`
	D4RootCause       RootCause      `json:"D4_RootCause"`
	D5Actions         []ActionRecord `json:"D5_Actions"`
	D6Verification    string         `json:"D6_Verification"`
	D7Standardization string         `json:"D7_Standardization"`
	D8Conclusion      string         `json:"D8_Conclusion"`
}

type FiveW2H struct {
	What    string `json:"What"`
	When    string `json:"When"`
	Where   string `json:"Where"`
	Who     string `json:"Who"`
	Why     string `json:"Why"`
	How     string `json:"How"`
	HowMuch string `json:"HowMuch"`
}

type RootCause struct {
	OccurrenceRootCause string `json:"OccurrenceRootCause"`
	EscapeRootCause     string `json:"EscapeRootCause"`
}

// ActionRecord is a D3 or D5 action item.
type ActionRecord struct {
	Action  string              `json:"action"`
	Owner   string              `json:"owner"`
	DueDate string              `json:"dueDate"`
	Status  actionstatus.Status `json:"status"`
}

// Normalize makes every leaf present: blank scalars become NA, nil lists
// become empty and statuses collapse to Open/Completed. Due dates keep the
// text the model returned; the status resolver decides what they mean.
func (r *ExtractedReport) Normalize() {
	fill(&r.D1TeamLeader)
	for _, p := range []*string{
		&r.D25W2H.What, &r.D25W2H.When, &r.D25W2H.Where, &r.D25W2H.Who,
		&r.D25W2H.Why, &r.D25W2H.How, &r.D25W2H.HowMuch,
	} {
		fill(p)
	}
	fill(&r.D4RootCause.OccurrenceRootCause)
	fill(&r.D4RootCause.EscapeRootCause)
	fill(&r.D6Verification)
	fill(&r.D7Standardization)
	fill(&r.D8Conclusion)
	r.D3ICA = normalizeActions(r.D3ICA)
	r.D5Actions = normalizeActions(r.D5Actions)
}

func normalizeActions(in []ActionRecord) []ActionRecord {
	out := make([]ActionRecord, 0, len(in))
	for _, a := range in {
		fill(&a.Action)
		fill(&a.Owner)
		a.DueDate = strings.TrimSpace(a.DueDate)
		fill(&a.DueDate)
		a.Status = actionstatus.ParseStatus(string(a.Status))
		out = append(out, a)
	}
	return out
}

func fill(p *string) {
	if strings.TrimSpace(*p) == "" {
		*p = NA
	}
}

// Decoding is lenient below the top-level object: a number or bool leaf is
// kept as its text, null or a nested value becomes NA, a list that is not an
// array becomes empty and a section that is not an object is all NA.

func (r *ExtractedReport) UnmarshalJSON(b []byte) error {
	m := fields(b)
	*r = ExtractedReport{
		D1TeamLeader:      leaf(m, "D1_TeamLeader"),
		D3ICA:             actions(m["D3_ICA"]),
		D5Actions:         actions(m["D5_Actions"]),
		D6Verification:    leaf(m, "D6_Verification"),
		D7Standardization: leaf(m, "D7_Standardization"),
		D8Conclusion:      leaf(m, "D8_Conclusion"),
	}
	_ = r.D25W2H.UnmarshalJSON(m["D2_5W2H"])
	_ = r.D4RootCause.UnmarshalJSON(m["D4_RootCause"])
	return nil
}

func (f *FiveW2H) UnmarshalJSON(b []byte) error {
	m := fields(b)
	*f = FiveW2H{
		What:    leaf(m, "What"),
		When:    leaf(m, "When"),
		Where:   leaf(m, "Where"),
		Who:     leaf(m, "Who"),
		Why:     leaf(m, "Why"),
		How:     leaf(m, "How"),
		HowMuch: leaf(m, "HowMuch"),
	}
	return nil
}

func (c *RootCause) UnmarshalJSON(b []byte) error {
	m := fields(b)
	*c = RootCause{
		OccurrenceRootCause: leaf(m, "OccurrenceRootCause"),
		EscapeRootCause:     leaf(m, "EscapeRootCause"),
	}
	return nil
}

func (a *ActionRecord) UnmarshalJSON(b []byte) error {
	m := fields(b)
	*a = ActionRecord{
		Action:  leaf(m, "action"),
		Owner:   leaf(m, "owner"),
		DueDate: leaf(m, "dueDate"),
		Status:  actionstatus.Status(leaf(m, "status")),
	}
	return nil
}

// fields returns the members of a JSON object, or nil for anything else.
func fields(b []byte) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

func leaf(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return NA
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return NA
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return NA
	}
}

func actions(raw json.RawMessage) []ActionRecord {
	var out []ActionRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

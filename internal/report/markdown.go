package report

import (
	"fmt"
	"strings"
)

const na = "N/A"

// Markdown renders the report body sent for translation of an authored report.
func (m *Model) Markdown(actions []AnnotatedAction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 8D Report: %s\n\n", m.D0.Title)

	b.WriteString("## D1 & D2: Team and Problem Description\n")
	fmt.Fprintf(&b, "- Leader: %s\n", m.D1.Leader)
	fmt.Fprintf(&b, "- Problem (What): %s\n", m.D2.What)
	fmt.Fprintf(&b, "- Detailed Description: %s\n\n", m.D2.Desc)

	b.WriteString("## D3: Interim Containment Action (ICA)\n")
	if len(m.D3) == 0 {
		b.WriteString(na + "\n")
	}
	for _, c := range m.D3 {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\n")

	b.WriteString("## D4: Root Cause Analysis (RCA)\n")
	for i, w := range m.D4.Whys {
		if strings.TrimSpace(w) == "" {
			w = na
		}
		fmt.Fprintf(&b, "- Why %d: %s\n", i+1, w)
	}
	fmt.Fprintf(&b, "- Root Cause Summary: %s\n\n", m.D4.RootCause)

	b.WriteString("## D5/D6: Permanent Corrective Actions (PCA) & Verification\n")
	if len(actions) == 0 {
		b.WriteString(na + "\n")
	}
	for _, a := range actions {
		fmt.Fprintf(&b, "- %s (Due: %s, Status: %s)\n", a.Action, a.Date, a.Label)
	}
	b.WriteString("\n")

	b.WriteString("## D7 & D8: Prevention and Conclusion\n")
	fmt.Fprintf(&b, "- Standardization Check: FMEA: %s | CP: %s | SOP: %s\n", Check(m.D7.FMEA), Check(m.D7.CP), Check(m.D7.SOP))
	b.WriteString("- Conclusion: Report Closed.\n")
	return b.String()
}

// Check renders a D7 flag.
func Check(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

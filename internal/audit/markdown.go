package audit

import (
	"fmt"
	"strings"
)

// DataMarkdown renders the structured part of an audit as Markdown. This is
// the half of the translation payload that precedes the delimiter.
func DataMarkdown(ex ExtractedReport) string {
	var b strings.Builder
	b.WriteString("# Structured 8D Report\n")
	fmt.Fprintf(&b, "## D1/D2: %s | %s\n", ex.D1TeamLeader, ex.D25W2H.What)
	fmt.Fprintf(&b, "## D4 Root Cause: Occurrence: %s | Escape: %s\n", ex.D4RootCause.OccurrenceRootCause, ex.D4RootCause.EscapeRootCause)
	writeActions(&b, "D3 Interim Containment (ICA)", ex.D3ICA)
	writeActions(&b, "D5 Permanent Corrective Actions (PCA)", ex.D5Actions)
	fmt.Fprintf(&b, "## D6 Verification: %s\n", ex.D6Verification)
	fmt.Fprintf(&b, "## D7 Standardization: %s\n", ex.D7Standardization)
	fmt.Fprintf(&b, "## D8 Conclusion: %s\n", ex.D8Conclusion)
	return b.String()
}

func writeActions(b *strings.Builder, title string, items []ActionRecord) {
	fmt.Fprintf(b, "## %s\n", title)
	if len(items) == 0 {
		b.WriteString(NA + "\n")
		return
	}
	for _, a := range items {
		fmt.Fprintf(b, "* %s (Owner: %s, Due: %s, Status: %s)\n", a.Action, a.Owner, a.DueDate, a.Status)
	}
}

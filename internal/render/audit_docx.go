package render

import (
	"fmt"
	"time"

	"eightd/internal/audit"
)

// MergedNotice heads a translated document whose two parts could not be
// separated again.
const MergedNotice = "--- Structured data and evaluation are shown merged ---"

// AuditExport is the input of an audit document. A nil Translation selects
// the untranslated layout built from the extracted fields.
type AuditExport struct {
	Extracted   audit.ExtractedReport
	Evaluation  string
	Translation *audit.Translation
}

// AuditDocument lays out an audit as a Word document.
func AuditDocument(in AuditExport, now time.Time) *Document {
	doc := NewDocument()
	doc.Heading("AI Audited 8D Report", 1)
	doc.Paragraph("Audit date: " + now.Format("2006-01-02 15:04:05"))
	doc.Heading("1. Structured 8D Report Overview", 2)

	if t := in.Translation; t != nil {
		structured := ""
		if t.Structured != nil {
			structured = *t.Structured
		}
		if t.StructureLost {
			doc.Paragraph(MergedNotice)
		}
		doc.Append(ParseMarkdownLines(structured+"\n\n"+t.Narrative), 1)
		return doc
	}

	ex := in.Extracted
	doc.Table([][]string{
		{"Stage", "Content"},
		{"D1 (Team Leader)", ex.D1TeamLeader},
		{"D2 (Problem)", ex.D25W2H.What},
		{"D4 (Root Cause)", fmt.Sprintf("Occurrence: %s | Escape: %s", ex.D4RootCause.OccurrenceRootCause, ex.D4RootCause.EscapeRootCause)},
		{"D8 (Conclusion)", ex.D8Conclusion},
	})
	actionList(doc, "Interim containment actions (D3 ICA):", ex.D3ICA)
	actionList(doc, "Permanent corrective actions (D5 PCA):", ex.D5Actions)
	doc.Paragraph("D6 Verification: " + ex.D6Verification)
	doc.Paragraph("D7 Standardization: " + ex.D7Standardization)

	doc.Heading("2. AI Audit Evaluation", 2)
	doc.Append(ParseMarkdownLines(in.Evaluation), 1)
	return doc
}

func actionList(doc *Document, title string, items []audit.ActionRecord) {
	doc.Paragraph(title)
	if len(items) == 0 {
		doc.Bullet(audit.NA)
		return
	}
	for _, a := range items {
		doc.Bullet(fmt.Sprintf("%s (Owner: %s, Due: %s, Status: %s)", a.Action, a.Owner, a.DueDate, a.Status))
	}
}

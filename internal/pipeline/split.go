package pipeline

import (
	"strings"

	"eightd/internal/audit"
)

// Delimiter separates the structured part from the narrative part of a
// combined translation payload. The model is asked to keep it verbatim.
const Delimiter = "***AI_EVAL_SEP***"

// Parts is a combined payload after the model returned it.
// Structured is nil in degraded mode, where Narrative carries everything.
type Parts struct {
	Structured    *string
	Narrative     string
	StructureLost bool
}

// CombinedPayload joins the two halves around the delimiter.
func CombinedPayload(structured, narrative string) string {
	return structured + "\n\n" + Delimiter + "\n\n" + narrative
}

// Split re-splits a translated payload. Exactly one delimiter yields two
// trimmed halves. Zero or several delimiters mean the framing cannot be
// trusted, so the whole text comes back merged with StructureLost set.
func Split(text string) Parts {
	if strings.Count(text, Delimiter) != 1 {
		return Parts{Narrative: text, StructureLost: true}
	}
	head, tail, _ := strings.Cut(text, Delimiter)
	structured := strings.TrimSpace(head)
	return Parts{Structured: &structured, Narrative: strings.TrimSpace(tail)}
}

// Translation turns the parts into the audit state for lang.
func (p Parts) Translation(lang string) audit.Translation {
	return audit.Translation{
		Language:      lang,
		Structured:    p.Structured,
		Narrative:     p.Narrative,
		StructureLost: p.StructureLost,
	}
}

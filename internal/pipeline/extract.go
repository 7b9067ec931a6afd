package pipeline

import (
	"context"
	"errors"
	"strings"

	"eightd/internal/audit"
	"eightd/internal/llm"
	"eightd/internal/llmclient"
	"eightd/internal/llmtool"
	"eightd/internal/util/jsonutil"
)

// ErrEmptyInput is returned before any request when there is nothing to read.
var ErrEmptyInput = errors.New("input text is empty")

const extractionSchema = `{
  "D1_TeamLeader": "team leader name",
  "D2_5W2H": {
    "What": "what happened",
    "When": "when it happened",
    "Where": "where it happened",
    "Who": "who found it or is affected",
    "Why": "why it happened (initial cause)",
    "How": "how it was confirmed or measured",
    "HowMuch": "scope of impact or loss"
  },
  "D3_ICA": [
    {"action": "containment action", "owner": "N/A", "dueDate": "N/A", "status": "Open"}
  ],
  "D4_RootCause": {
    "OccurrenceRootCause": "why the defect occurred",
    "EscapeRootCause": "why the defect escaped detection"
  },
  "D5_Actions": [
    {"action": "permanent corrective action", "owner": "N/A", "dueDate": "N/A", "status": "Open"}
  ],
  "D6_Verification": "verification results and data",
  "D7_Standardization": "standardization such as FMEA/SOP/Control Plan updates",
  "D8_Conclusion": "closure and team recognition"
}`

var extractionPromptSpec = llmtool.StructuredPromptSpec{
	Purpose:    "Extract the key data of disciplines D1 to D8 from an 8D problem-solving report.",
	Background: "You are a precise 8D information extraction engine working for a quality audit.",
	Schema:     extractionSchema,
	Rules: []string{
		"Break the D2 problem description down into the 5W2H fields.",
		`For every D3 and D5 action item provide "action", "owner", "dueDate" (YYYY-MM-DD or "N/A") and "status" ("Completed" or "Open").`,
		`When owner or due date cannot be found use "N/A"; when status cannot be found use "Open".`,
		"Extract both the occurrence root cause and the escape root cause for D4.",
		`Never omit a key: use "N/A" for unknown text fields and [] for lists with no items.`,
		"Do not invent content that is not in the report.",
	},
	OutputFormat: "A single JSON object exactly matching SCHEMA. No Markdown fences, no commentary.",
}

// Extractor turns raw report text into an ExtractedReport with one JSON-mode
// request. The response is never repaired: anything but a single JSON object
// is an error, while odd leaf values inside it are coerced to text or N/A.
type Extractor struct{ LLM llmclient.LLMClient }

func (p *Extractor) Extract(ctx context.Context, raw string) (audit.ExtractedReport, error) {
	if strings.TrimSpace(raw) == "" {
		return audit.ExtractedReport{}, stageErr(ErrExtraction, ErrEmptyInput)
	}
	spec := extractionPromptSpec
	spec.Content = raw
	prompt, err := llmtool.Build(spec)
	if err != nil {
		return audit.ExtractedReport{}, stageErr(ErrExtraction, err)
	}
	resp, err := p.LLM.Generate(llm.WithPhase(ctx, llm.PhaseExtract), llmclient.Request{
		Prompt:      prompt,
		Format:      llmclient.FormatJSON,
		Temperature: 0.1,
	})
	if err != nil {
		return audit.ExtractedReport{}, stageErr(ErrExtraction, err)
	}
	var out audit.ExtractedReport
	if err := jsonutil.DecodeObject([]byte(resp.Text), &out); err != nil {
		return audit.ExtractedReport{}, stageErr(ErrExtraction, &SchemaError{Phase: llm.PhaseExtract, Err: err, Raw: resp.Text})
	}
	out.Normalize()
	return out, nil
}

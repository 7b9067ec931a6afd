package pipeline

import (
	"context"
	"strings"

	"eightd/internal/audit"
	"eightd/internal/llm"
	"eightd/internal/llmclient"
	"eightd/internal/llmtool"
	"eightd/internal/util/jsonutil"
)

// EvaluationGroups are the discipline groupings the narrative covers, in
// order, each with the question its assessment answers.
var EvaluationGroups = []struct {
	Title    string
	Question string
}{
	{"D0 & D1 (Basics and Team)", "Are the basic report data (title, dates) and the team (leader, members) clearly recorded?"},
	{"D2 (Problem Description)", "Is the 5W2H description complete and supported by quantified data?"},
	{"D3 (Interim Containment)", "Are the containment actions strong enough to isolate every nonconforming part and stop escapes?"},
	{"D4 (Root Cause)", "Are occurrence and escape causes distinguished, and does the analysis reach the system or process level?"},
	{"D5 & D6 (Permanent Actions and Verification)", "Does each permanent action directly remove a D4 root cause? Do actions carry owner, due date and status? Is D6 verification explicit and quantified?"},
	{"D7 & D8 (Prevention and Closure)", "Are FMEA, SOP or Control Plan updates named? Was the report closed properly with team recognition?"},
}

func evaluationOutline() string {
	var b strings.Builder
	b.WriteString("## 8D Report Stage Evaluation (AI Audit)\n")
	for _, g := range EvaluationGroups {
		b.WriteString("\n### " + g.Title + "\n")
		b.WriteString("* **Assessment**: " + g.Question + "\n")
		b.WriteString("* **Recommendation**:\n")
	}
	return b.String()
}

var evaluationPromptSpec = llmtool.StructuredPromptSpec{
	Purpose:    "Audit an extracted 8D report for completeness and logical consistency, stage by stage.",
	Background: "You are a professional 8D process auditor. INPUT is the structured data extracted from the report.",
	Rules: []string{
		"Cover every section of OUTPUT_FORMAT in the same order.",
		"Every section contains one assessment and one concrete recommendation.",
		"The link between D5 actions and D4 root causes is the most important point; judge it explicitly.",
		`Treat "N/A" as missing information.`,
	},
	OutputFormat: "Concise Markdown following this outline:\n\n" + evaluationOutline(),
}

// Evaluator produces the narrative audit of an extracted report. The text is
// opaque to the rest of the system; only emptiness is checked.
type Evaluator struct{ LLM llmclient.LLMClient }

func (p *Evaluator) Evaluate(ctx context.Context, ex audit.ExtractedReport) (string, error) {
	input, err := jsonutil.MarshalNoEscapeIndent(ex, "", "  ")
	if err != nil {
		return "", stageErr(ErrEvaluation, err)
	}
	spec := evaluationPromptSpec
	spec.Input = string(input)
	prompt, err := llmtool.Build(spec)
	if err != nil {
		return "", stageErr(ErrEvaluation, err)
	}
	resp, err := p.LLM.Generate(llm.WithPhase(ctx, llm.PhaseEvaluate), llmclient.Request{
		Prompt:      prompt,
		Format:      llmclient.FormatText,
		Temperature: 0.3,
	})
	if err != nil {
		return "", stageErr(ErrEvaluation, err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", stageErr(ErrEvaluation, llmclient.ErrEmptyResponse)
	}
	return resp.Text, nil
}

package pipeline

import (
	"context"
	"errors"
	"strings"

	"eightd/internal/llm"
	"eightd/internal/llmclient"
	"eightd/internal/llmtool"
	"eightd/internal/report"
	"eightd/internal/util/jsonutil"
)

// ErrNoProblem means D2 has no "what" yet, so there is nothing to analyse.
var ErrNoProblem = errors.New("D2 problem description is empty")

var fiveWhysPromptSpec = llmtool.StructuredPromptSpec{
	Purpose:    "Run a 5-Whys root cause analysis for the problem in INPUT.",
	Background: "You are a quality-management expert helping a team fill in D4 of an 8D report.",
	OutputFields: []llmtool.PromptField{
		{Name: "five_whys", Type: "[]string", Required: true, Description: "Exactly five strings, the chain from symptom to cause."},
		{Name: "root_cause", Type: "string", Required: true, Description: "One sentence summarising the root cause."},
	},
	Rules: []string{
		"Each why answers the previous one.",
		"Do not output Markdown.",
	},
	OutputFormat: "JSON only.",
}

// Analyzer proposes a five-whys chain for D4. The proposal is returned to the
// caller and never written into a report here.
type Analyzer struct{ LLM llmclient.LLMClient }

func (p *Analyzer) Suggest(ctx context.Context, d2 report.D2) (report.FiveWhys, error) {
	what := strings.TrimSpace(d2.What)
	if what == "" {
		return report.FiveWhys{}, stageErr(ErrAnalysis, ErrNoProblem)
	}
	spec := fiveWhysPromptSpec
	spec.Input = "Problem: " + what + "\nDetails: " + strings.TrimSpace(d2.Desc)
	if where := strings.TrimSpace(d2.Where); where != "" {
		spec.Input += "\nWhere: " + where
	}
	prompt, err := llmtool.Build(spec)
	if err != nil {
		return report.FiveWhys{}, stageErr(ErrAnalysis, err)
	}
	resp, err := p.LLM.Generate(llm.WithPhase(ctx, llm.PhaseFiveWhys), llmclient.Request{
		Prompt:      prompt,
		Format:      llmclient.FormatJSON,
		Temperature: 0.3,
	})
	if err != nil {
		return report.FiveWhys{}, stageErr(ErrAnalysis, err)
	}
	var out report.FiveWhys
	if err := jsonutil.DecodeObject([]byte(resp.Text), &out); err != nil {
		return report.FiveWhys{}, stageErr(ErrAnalysis, &SchemaError{Phase: llm.PhaseFiveWhys, Err: err, Raw: resp.Text})
	}
	if len(out.FiveWhys) == 0 {
		return report.FiveWhys{}, stageErr(ErrAnalysis, &SchemaError{Phase: llm.PhaseFiveWhys, Err: errors.New("five_whys is empty"), Raw: resp.Text})
	}
	if len(out.FiveWhys) > report.WhyCount {
		out.FiveWhys = out.FiveWhys[:report.WhyCount]
	}
	out.RootCause = strings.TrimSpace(out.RootCause)
	return out, nil
}

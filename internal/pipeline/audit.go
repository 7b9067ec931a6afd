package pipeline

import (
	"context"

	"eightd/internal/audit"
	"eightd/internal/language"
	"eightd/internal/llmclient"
)

// Auditor runs the audit flow against a session's audit state. Each run
// either commits its whole outcome or leaves the state as it was.
type Auditor struct {
	Extractor  *Extractor
	Evaluator  *Evaluator
	Translator *Translator
}

// NewAuditor wires the three stages to one client.
func NewAuditor(cli llmclient.LLMClient, catalog *language.Catalog) *Auditor {
	return &Auditor{
		Extractor:  &Extractor{LLM: cli},
		Evaluator:  &Evaluator{LLM: cli},
		Translator: &Translator{LLM: cli, Catalog: catalog},
	}
}

// Run extracts and evaluates raw, then stores the pair in res, dropping any
// translation of the previous pair.
func (a *Auditor) Run(ctx context.Context, raw string, res *audit.Result) error {
	ex, err := a.Extractor.Extract(ctx, raw)
	if err != nil {
		return err
	}
	eval, err := a.Evaluator.Evaluate(ctx, ex)
	if err != nil {
		return err
	}
	res.CommitAudit(ex, eval)
	return nil
}

// Translate translates the current pair into lang and stores it in res.
// It returns the committed translation.
func (a *Auditor) Translate(ctx context.Context, res *audit.Result, lang string) (audit.Translation, error) {
	t, err := a.Translator.TranslateAudit(ctx, res, lang)
	if err != nil {
		return audit.Translation{}, err
	}
	if err := res.CommitTranslation(t); err != nil {
		return audit.Translation{}, stageErr(ErrTranslation, err)
	}
	return t, nil
}

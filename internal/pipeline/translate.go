package pipeline

import (
	"context"
	"strings"

	"eightd/internal/audit"
	"eightd/internal/language"
	"eightd/internal/llm"
	"eightd/internal/llmclient"
	"eightd/internal/llmtool"
)

var translationPromptSpec = llmtool.StructuredPromptSpec{
	Background: "You are a professional translator for quality-management documents.",
	Rules: []string{
		"Keep the Markdown structure: headings, lists, emphasis and paragraph breaks.",
		"Keep the separator " + Delimiter + " exactly as written, untranslated, on its own line, in the same position.",
		"Do not translate names of people, part numbers or document codes.",
	},
	OutputFormat: "Only the translated text, with no explanation and no extra Markdown fences.",
}

// Translator translates report text. Text in the native language is returned
// as is without calling the model.
type Translator struct {
	LLM     llmclient.LLMClient
	Catalog *language.Catalog
}

func (p *Translator) catalog() *language.Catalog {
	if p.Catalog == nil {
		return language.Default()
	}
	return p.Catalog
}

// Translate translates text into lang (tag, label or name).
func (p *Translator) Translate(ctx context.Context, text, lang string) (string, error) {
	target, err := p.catalog().Lookup(lang)
	if err != nil {
		return "", stageErr(ErrTranslation, err)
	}
	return p.translateTo(ctx, text, target)
}

func (p *Translator) translateTo(ctx context.Context, text string, target language.Language) (string, error) {
	if target.Native {
		return text, nil
	}
	spec := translationPromptSpec
	spec.Purpose = "Translate the core content of the 8D report in CONTENT into " + target.Name + "."
	spec.Language = target.Name
	spec.Content = text
	prompt, err := llmtool.Build(spec)
	if err != nil {
		return "", stageErr(ErrTranslation, err)
	}
	resp, err := p.LLM.Generate(llm.WithPhase(ctx, llm.PhaseTranslate), llmclient.Request{
		Prompt:      prompt,
		Format:      llmclient.FormatText,
		Temperature: 0.2,
	})
	if err != nil {
		return "", stageErr(ErrTranslation, err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", stageErr(ErrTranslation, llmclient.ErrEmptyResponse)
	}
	return resp.Text, nil
}

// TranslateAudit translates the current audit pair as one framed payload and
// re-splits the answer. res is not modified.
func (p *Translator) TranslateAudit(ctx context.Context, res *audit.Result, lang string) (audit.Translation, error) {
	if res == nil || !res.Ready() {
		return audit.Translation{}, stageErr(ErrTranslation, audit.ErrNotReady)
	}
	target, err := p.catalog().Lookup(lang)
	if err != nil {
		return audit.Translation{}, stageErr(ErrTranslation, err)
	}
	payload := CombinedPayload(audit.DataMarkdown(*res.Extracted), *res.Evaluation)
	out, err := p.translateTo(ctx, payload, target)
	if err != nil {
		return audit.Translation{}, err
	}
	return Split(out).Translation(target.Tag), nil
}

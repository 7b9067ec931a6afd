// Package llmtool renders sectioned prompts for the report pipelines.
package llmtool

import (
	"bytes"
	"fmt"
	"strings"
)

// Section titles with a fixed meaning.
const (
	SectionInput   = "INPUT"
	SectionContent = "CONTENT"
)

// PromptField describes a single output field in a simple schema.
type PromptField struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// StructuredPromptSpec defines the sections for a structured prompt.
// Content, when set, is always rendered last so the payload is contiguous.
type StructuredPromptSpec struct {
	Purpose      string
	Background   string
	Input        string
	OutputFields []PromptField
	Schema       string
	Rules        []string
	OutputFormat string
	Language     string
	Content      string
}

// Build renders the prompt. Purpose is required.
func Build(spec StructuredPromptSpec) (string, error) {
	if strings.TrimSpace(spec.Purpose) == "" {
		return "", fmt.Errorf("llmtool: purpose is empty")
	}
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", spec.Purpose)
	writeSection(&buf, "BACKGROUND", spec.Background)
	writeSection(&buf, SectionInput, spec.Input)
	writeSection(&buf, "OUTPUT", formatFields(spec.OutputFields))
	writeSection(&buf, "SCHEMA", spec.Schema)
	writeSection(&buf, "RULES", formatList(spec.Rules))
	writeSection(&buf, "OUTPUT_FORMAT", spec.OutputFormat)
	writeSection(&buf, "LANGUAGE", spec.Language)
	writeSection(&buf, SectionContent, spec.Content)
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// SectionBody returns the body of the last occurrence of section title.
// The body runs to the end of the prompt, so it is only exact for the final
// section.
func SectionBody(prompt, title string) (string, bool) {
	marker := "[" + title + "]\n"
	i := strings.LastIndex(prompt, marker)
	if i < 0 {
		return "", false
	}
	return strings.TrimSuffix(prompt[i+len(marker):], "\n"), true
}

func formatFields(fields []PromptField) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		req := "optional"
		if f.Required {
			req = "required"
		}
		if f.Description != "" {
			fmt.Fprintf(&buf, "- %s (%s, %s): %s\n", name, f.Type, req, f.Description)
		} else {
			fmt.Fprintf(&buf, "- %s (%s, %s)\n", name, f.Type, req)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}

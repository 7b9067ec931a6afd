package render

import (
	"strings"
	"time"

	"eightd/internal/language"
)

var unsafeName = strings.NewReplacer("/", "_", `\`, "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_", "\n", " ", "\r", " ")

func safeName(s string) string {
	return strings.TrimSpace(unsafeName.Replace(s))
}

// HTMLFileName names an exported authored report: 8D_Report_{title}_{tag}.html.
func HTMLFileName(title string, lang language.Language) string {
	return "8D_Report_" + safeName(title) + "_" + lang.FileTag + ".html"
}

// PDFFileName is HTMLFileName with a .pdf extension.
func PDFFileName(title string, lang language.Language) string {
	return strings.TrimSuffix(HTMLFileName(title, lang), ".html") + ".pdf"
}

// DocxFileName names an exported audit. Native-language exports carry no tag.
func DocxFileName(lang language.Language, now time.Time) string {
	day := now.Format("20060102")
	if lang.Native {
		return "AI_Audit_Report_" + day + ".docx"
	}
	return "AI_Audit_" + lang.FileTag + "_Report_" + day + ".docx"
}

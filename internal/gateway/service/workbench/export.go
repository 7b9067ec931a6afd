package workbench

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"eightd/internal/audit"
	"eightd/internal/language"
	"eightd/internal/pipeline"
	"eightd/internal/render"
	"eightd/internal/session"
)

// Export formats of an authored report.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypePDF  = "application/pdf"
	contentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExportReport renders the authored report in lang. A non-native language
// translates the report body first.
func (s *Service) ExportReport(ctx context.Context, id, lang, format, apiKey string) (*File, error) {
	target, err := s.catalog.Lookup(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrTranslation, err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatHTML
	}
	if format != FormatHTML && format != FormatPDF {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, format)
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	today := s.now()
	view := render.NewReportView(sess.Report, today)
	var buf bytes.Buffer
	if target.Native {
		err = render.HTML(&buf, view)
	} else {
		body, terr := s.translateReport(ctx, sess, view, target, apiKey)
		if terr != nil {
			return nil, terr
		}
		err = render.TranslatedHTML(&buf, view.Title(), body)
	}
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	f := &File{Name: render.HTMLFileName(view.Title(), target), ContentType: contentTypeHTML, Data: buf.Bytes()}
	if format == FormatPDF {
		pdf, err := s.pdf.Print(ctx, buf.String())
		if err != nil {
			return nil, err
		}
		f = &File{Name: render.PDFFileName(view.Title(), target), ContentType: contentTypePDF, Data: pdf}
	}
	s.store(ctx, sess.ID, f)
	return f, nil
}

func (s *Service) translateReport(ctx context.Context, sess *session.Session, view render.ReportView, target language.Language, apiKey string) (string, error) {
	ctx, finish := s.trace(ctx, sess.ID, "export report")
	defer finish()
	cli, done, err := s.client(ctx, apiKey)
	if err != nil {
		return "", err
	}
	defer done()
	tr := &pipeline.Translator{LLM: cli, Catalog: s.catalog}
	return tr.Translate(ctx, sess.Report.Markdown(view.Actions), target.Tag)
}

// ExportAudit writes the current audit as a Word document in lang. The
// stored translation is reused when it matches; otherwise the audit is
// translated and the translation kept on the session.
func (s *Service) ExportAudit(ctx context.Context, id, lang, apiKey string) (*File, error) {
	target, err := s.catalog.Lookup(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrTranslation, err)
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Audit.Ready() {
		return nil, ErrNoAudit
	}

	var tr *audit.Translation
	if !target.Native {
		if t, ok := sess.Audit.TranslatedFor(target.Tag); ok {
			tr = t
		} else {
			sess, err = s.TranslateAudit(ctx, id, target.Tag, apiKey)
			if err != nil {
				return nil, err
			}
			tr = sess.Audit.Translation
		}
	}

	now := s.now()
	doc := render.AuditDocument(render.AuditExport{
		Extracted:   *sess.Audit.Extracted,
		Evaluation:  *sess.Audit.Evaluation,
		Translation: tr,
	}, now)
	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	f := &File{Name: render.DocxFileName(target, now), ContentType: contentTypeDocx, Data: data}
	s.store(ctx, sess.ID, f)
	return f, nil
}

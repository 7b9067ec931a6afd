package workbench

import (
	"context"
	"errors"

	"eightd/internal/audit"
	"eightd/internal/ingest"
	"eightd/internal/session"
)

var (
	ErrNoSuggestion = errors.New("no pending 5-Whys suggestion")
	ErrNoAudit      = audit.ErrNotReady
)

// DecodeUpload turns an uploaded file into report text.
func (s *Service) DecodeUpload(name string, data []byte) (string, error) {
	return ingest.Decode(name, data, s.pdfText)
}

// Audit extracts and evaluates raw. The session keeps its previous audit
// when any stage fails.
func (s *Service) Audit(ctx context.Context, id, raw, apiKey string) (*session.Session, error) {
	ctx, finish := s.trace(ctx, id, "audit")
	defer finish()
	a, done, err := s.auditor(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	defer done()
	return s.update(ctx, id, func(sess *session.Session) error {
		res := sess.Audit
		if err := a.Run(ctx, raw, &res); err != nil {
			return err
		}
		sess.Audit = res
		return nil
	})
}

// TranslateAudit translates the current audit into lang.
func (s *Service) TranslateAudit(ctx context.Context, id, lang, apiKey string) (*session.Session, error) {
	ctx, finish := s.trace(ctx, id, "translate audit")
	defer finish()
	a, done, err := s.auditor(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	defer done()
	return s.update(ctx, id, func(sess *session.Session) error {
		res := sess.Audit
		if _, err := a.Translate(ctx, &res, lang); err != nil {
			return err
		}
		sess.Audit = res
		return nil
	})
}

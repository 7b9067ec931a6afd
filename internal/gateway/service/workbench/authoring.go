package workbench

import (
	"context"
	"fmt"

	"eightd/internal/pipeline"
	"eightd/internal/report"
	"eightd/internal/session"
)

// EditReport applies fn to the session's report.
func (s *Service) EditReport(ctx context.Context, id string, fn func(*report.Model) error) (*session.Session, error) {
	return s.update(ctx, id, func(sess *session.Session) error {
		return fn(sess.Report)
	})
}

// AddPermanentAction appends a D5 action. An empty date defaults to two
// weeks from today.
func (s *Service) AddPermanentAction(ctx context.Context, id, action, date string) (*session.Session, error) {
	return s.EditReport(ctx, id, func(m *report.Model) error {
		if date == "" {
			date = report.DefaultActionDate(s.now())
		}
		if !m.AddPermanentAction(action, date) {
			return fmt.Errorf("%w: action is empty", ErrInvalidInput)
		}
		return nil
	})
}

// Actions returns the D5 actions annotated against today.
func (s *Service) Actions(ctx context.Context, id string) ([]report.AnnotatedAction, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Report.Annotate(s.now()), nil
}

// SuggestWhys asks the model for a 5-Whys chain from D2. Any earlier pending
// suggestion is dropped before the request, even if the request fails.
func (s *Service) SuggestWhys(ctx context.Context, id, apiKey string) (*session.Session, error) {
	ctx, finish := s.trace(ctx, id, "five whys")
	defer finish()
	cli, done, err := s.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	defer done()
	analyzer := &pipeline.Analyzer{LLM: cli}

	var failure error
	sess, err := s.update(ctx, id, func(sess *session.Session) error {
		sess.Report.DiscardPendingSuggestion()
		got, err := analyzer.Suggest(ctx, sess.Report.D2)
		if err != nil {
			failure = err
			return nil
		}
		sess.Report.SetPendingSuggestion(got)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		s.log.Printf("session %s: five whys: %v", id, failure)
		return nil, failure
	}
	return sess, nil
}

// AdoptSuggestion copies the pending suggestion into D4.
func (s *Service) AdoptSuggestion(ctx context.Context, id string) (*session.Session, error) {
	return s.EditReport(ctx, id, func(m *report.Model) error {
		if !m.AdoptSuggestion() {
			return ErrNoSuggestion
		}
		return nil
	})
}

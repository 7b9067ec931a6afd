// Package workbench implements the gateway actions on a session: report
// editing, 5-Whys suggestion, audit, translation and export.
//
// Every action runs under the session's lock on a private copy that is
// written back only when the action succeeds.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eightd/internal/artifact"
	"eightd/internal/ingest"
	"eightd/internal/language"
	"eightd/internal/llm"
	"eightd/internal/llmclient"
	"eightd/internal/pipeline"
	"eightd/internal/render"
	"eightd/internal/session"
)

// Deps are the collaborators of a Service. Nil optional fields fall back to
// in-memory or disabled implementations.
type Deps struct {
	Sessions  session.Store
	Artifacts artifact.Store
	LLM       *llm.Setup
	Catalog   *language.Catalog
	PDF       *render.PDFPrinter
	PDFText   ingest.PDFExtractor
	Now       func() time.Time
	Logger    *log.Logger
}

const (
	defaultArtifactSessions = 1024
	defaultArtifactTTL      = 24 * time.Hour
)

type Service struct {
	sessions  session.Store
	artifacts artifact.Store
	llm       *llm.Setup
	catalog   *language.Catalog
	pdf       *render.PDFPrinter
	pdfText   ingest.PDFExtractor
	now       func() time.Time
	log       *log.Logger
	locks     *session.Locks
}

func New(d Deps) (*Service, error) {
	if d.Sessions == nil {
		return nil, fmt.Errorf("workbench: session store is required")
	}
	if d.LLM == nil {
		return nil, fmt.Errorf("workbench: llm setup is required")
	}
	s := &Service{
		sessions:  d.Sessions,
		artifacts: d.Artifacts,
		llm:       d.LLM,
		catalog:   d.Catalog,
		pdf:       d.PDF,
		pdfText:   d.PDFText,
		now:       d.Now,
		log:       d.Logger,
		locks:     session.NewLocks(),
	}
	if s.artifacts == nil {
		s.artifacts = artifact.NewMemoryStore(defaultArtifactSessions, defaultArtifactTTL)
	}
	if s.catalog == nil {
		s.catalog = language.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = log.Default()
	}
	return s, nil
}

func (s *Service) Catalog() *language.Catalog { return s.catalog }

func (s *Service) Create(ctx context.Context) (*session.Session, error) {
	sess := session.New(s.now())
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (*session.Session, error) {
	return s.sessions.Get(ctx, strings.TrimSpace(id))
}

// Delete drops the session and every export stored for it.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	unlock := s.locks.Lock(id)
	defer unlock()
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.artifacts.DeleteSession(ctx, id); err != nil {
		s.log.Printf("session %s: delete exports: %v", id, err)
	}
	return nil
}

// update loads id, applies fn and stores the result. Nothing is stored when
// fn fails.
func (s *Service) update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	id = strings.TrimSpace(id)
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		s.log.Printf("session %s: %v", id, err)
		return nil, err
	}
	sess.UpdatedAt = s.now()
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *Service) auditor(ctx context.Context, apiKey string) (*pipeline.Auditor, func(), error) {
	cli, err := s.llm.Client(ctx, apiKey)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewAuditor(cli, s.catalog), func() { _ = cli.Close() }, nil
}

func (s *Service) client(ctx context.Context, apiKey string) (llmclient.LLMClient, func(), error) {
	cli, err := s.llm.Client(ctx, apiKey)
	if err != nil {
		return nil, nil, err
	}
	return cli, func() { _ = cli.Close() }, nil
}

func (s *Service) store(ctx context.Context, sessionID string, f *File) {
	if err := s.artifacts.Put(ctx, sessionID, f.Name, f.Data, f.ContentType); err != nil {
		s.log.Printf("session %s: store export %s: %v", sessionID, f.Name, err)
		return
	}
	u, err := s.artifacts.GetURL(ctx, sessionID, f.Name)
	if err != nil {
		s.log.Printf("session %s: export url %s: %v", sessionID, f.Name, err)
		return
	}
	f.URL = u
}

// File is one exported document.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	URL         string
}

var ErrInvalidInput = errors.New("invalid input")

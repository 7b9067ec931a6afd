// Package session keeps the per-user working state: the report being
// authored and the latest audit. A session is handed out as a private copy
// and written back whole, so no two actions share a live value.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/moby/locker"

	"eightd/internal/audit"
	"eightd/internal/report"
)

var ErrNotFound = errors.New("session: not found")

type Session struct {
	ID        string        `json:"id"`
	Report    *report.Model `json:"report"`
	Audit     audit.Result  `json:"audit"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// New returns an empty session with a fresh id.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Report:    report.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone copies the session. Audit values are replaced wholesale on commit and
// never edited in place, so copying their pointers is enough.
func (s *Session) Clone() *Session {
	out := *s
	if s.Report != nil {
		out.Report = s.Report.Clone()
	} else {
		out.Report = report.New()
	}
	return &out
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Locks serialises actions per session id.
type Locks struct {
	l *locker.Locker
}

func NewLocks() *Locks { return &Locks{l: locker.New()} }

// Lock blocks until id is free and returns the release function.
func (l *Locks) Lock(id string) (unlock func()) {
	l.l.Lock(id)
	return func() { _ = l.l.Unlock(id) }
}

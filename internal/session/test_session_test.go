package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/moby/locker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eightd/internal/audit"
	"eightd/internal/report"
)

var now = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

func sample(t *testing.T) *Session {
	t.Helper()
	s := New(now)
	s.Report.SetD0(report.D0{Title: "Weld Crack", Customer: "ACME"})
	s.Report.AddPermanentAction("new fixture", "2024-06-24")
	require.NoError(t, s.Report.SetWhy(2, "why three"))
	ex := audit.ExtractedReport{D1TeamLeader: "Li Wei"}
	ex.Normalize()
	s.Audit.CommitAudit(ex, "eval")
	return s
}

func exerciseStore(t *testing.T, st Store) {
	ctx := context.Background()
	s := sample(t)

	_, err := st.Get(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Put(ctx, s))
	got, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weld Crack", got.Report.D0.Title)
	assert.Equal(t, "why three", got.Report.D4.Whys[2])
	assert.Len(t, got.Report.D5, 1)
	require.True(t, got.Audit.Ready())
	assert.Equal(t, "eval", *got.Audit.Evaluation)

	// Mutating a loaded copy does not touch the stored value.
	got.Report.SetD0(report.D0{Title: "changed"})
	again, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weld Crack", again.Report.D0.Title)

	got.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, st.Put(ctx, got))
	again, err = st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", again.Report.D0.Title)

	require.NoError(t, st.Delete(ctx, s.ID))
	_, err = st.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(ctx, s.ID), ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(8, time.Hour))
}

func TestSQLiteStore(t *testing.T) {
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	defer st.Close()
	exerciseStore(t, st)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	st, err := OpenSQLite(path)
	require.NoError(t, err)
	s := sample(t)
	require.NoError(t, st.Put(context.Background(), s))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(path)
	require.NoError(t, err)
	defer st.Close()
	got, err := st.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", got.Report.D0.Customer)
}

func TestSessionClone(t *testing.T) {
	s := sample(t)
	c := s.Clone()
	c.Report.AddContainment("sort stock")
	assert.Empty(t, s.Report.D3)
	assert.NotEqual(t, s.ID, New(now).ID)
}

func TestLocksSerialisePerID(t *testing.T) {
	l := NewLocks()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("same")
			defer unlock()
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	// The lock entry is released once nobody holds or waits on it.
	assert.ErrorIs(t, l.l.Unlock("same"), locker.ErrNoSuchLock)

	// Different ids do not block each other.
	u1 := l.Lock("a")
	u2 := l.Lock("b")
	u1()
	u2()
}

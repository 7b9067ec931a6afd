package artifact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(4, time.Hour)
	content := []byte("<html></html>")
	require.NoError(t, s.Put(ctx, "sess", "/8D_Report_x_English.html", content, "text/html"))
	content[0] = 'X'

	got, err := s.Get(ctx, "sess", "8D_Report_x_English.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(got))

	require.NoError(t, s.Put(ctx, "sess", "AI_Audit_Report_20240610.docx", nil, ""))
	require.NoError(t, s.Put(ctx, "other", "a.html", nil, ""))
	names, err := s.List(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, []string{"8D_Report_x_English.html", "AI_Audit_Report_20240610.docx"}, names)

	_, err = s.Get(ctx, "sess", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Put(ctx, " ", "a", nil, ""))
	assert.Error(t, s.Put(ctx, "sess", "", nil, ""))

	u, err := s.GetURL(ctx, "sess", "a")
	require.NoError(t, err)
	assert.Empty(t, u)
}

func TestMemoryStoreDeleteSessionAndExpiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	s := NewMemoryStore(4, time.Hour).WithClock(func() time.Time { return clock })
	for _, name := range []string{"a.html", "b.html", "c.docx"} {
		require.NoError(t, s.Put(ctx, "sess", name, []byte(name), ""))
	}
	require.NoError(t, s.Put(ctx, "other", "a.html", nil, ""))

	require.NoError(t, s.DeleteSession(ctx, "sess"))
	names, err := s.List(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, names)
	_, err = s.Get(ctx, "sess", "a.html")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.DeleteSession(ctx, " "))

	clock = clock.Add(2 * time.Hour)
	names, err = s.List(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStoreBoundsSessions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, time.Hour)
	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, s.Put(ctx, id, "a.html", nil, ""))
	}
	_, err := s.Get(ctx, "s1", "a.html")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "s3", "a.html")
	assert.NoError(t, err)
}

func TestS3ConfigValidation(t *testing.T) {
	assert.False(t, S3Config{}.Enabled())
	assert.True(t, S3Config{Endpoint: "localhost:9000", Bucket: "exports"}.Enabled())

	_, err := NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "exports"})
	assert.Error(t, err)
	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)
}

func TestS3PresignedURLIsOffline(t *testing.T) {
	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123", Bucket: "exports"})
	require.NoError(t, err)
	u, err := s.GetURL(context.Background(), "sess", "AI_Audit_Report_20240610.docx")
	require.NoError(t, err)
	assert.Contains(t, u, "http://localhost:9000/exports/sess/AI_Audit_Report_20240610.docx")
	assert.Contains(t, u, "X-Amz-Signature=")
}

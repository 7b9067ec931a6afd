package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLLMConfigProviderKeys(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_TIMEOUT", "30s")

	got := loadLLMConfig()
	assert.Equal(t, "gemini", got.Provider)
	assert.Equal(t, "g-key", got.APIKey)
	assert.Equal(t, "gemini-2.5-flash", got.Model)
	assert.Equal(t, 30*time.Second, got.Timeout)

	t.Setenv("LLM_API_KEY", "override")
	assert.Equal(t, "override", loadLLMConfig().APIKey)
}

func TestSessionConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("SESSION_MAX", "")

	got := loadSessionConfig()
	assert.Equal(t, "memory", got.Backend)
	assert.Equal(t, "tmp/sessions.db", got.SQLitePath)
	assert.Equal(t, 24*time.Hour, got.TTL)
	assert.Equal(t, 1024, got.MaxEntries)
}

func TestArtifactConfig(t *testing.T) {
	t.Setenv("ARTIFACT_S3_ENDPOINT", "")
	t.Setenv("ARTIFACT_MINIO_ENDPOINT", "")
	assert.False(t, loadArtifactConfig().CanUseS3())

	t.Setenv("ARTIFACT_MINIO_ENDPOINT", "minio:9000")
	t.Setenv("ARTIFACT_S3_ACCESS_KEY", "eightd")
	t.Setenv("ARTIFACT_S3_SECRET_KEY", "eightd123")
	t.Setenv("ARTIFACT_S3_USE_SSL", "")
	got := loadArtifactConfig()
	assert.True(t, got.CanUseS3())
	assert.False(t, got.UseSSL)
	assert.Equal(t, "eightd-exports", got.Bucket)
}

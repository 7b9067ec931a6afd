package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	Env       string
	LLM       LLMConfig
	Session   SessionConfig
	Artifact  ArtifactConfig
	PDFPrint  bool
	Languages string
}

type LLMConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	RPS      float64
	Burst    int
}

type SessionConfig struct {
	Backend     string
	SQLitePath  string
	PostgresDSN string
	TTL         time.Duration
	MaxEntries  int
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CanUseS3 reports whether the S3 settings are complete.
func (c ArtifactConfig) CanUseS3() bool {
	return c.Enabled &&
		strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.Bucket) != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:      *port,
		Env:       env,
		LLM:       loadLLMConfig(),
		Session:   loadSessionConfig(),
		Artifact:  loadArtifactConfig(),
		PDFPrint:  envBool("PDF_PRINT_ENABLED", false),
		Languages: strings.TrimSpace(os.Getenv("LANGUAGES_FILE")),
	}, nil
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(firstNonEmpty(os.Getenv("LLM_PROVIDER"), "deepseek"))
	var providerKey, defaultModel string
	switch provider {
	case "openai":
		providerKey = os.Getenv("OPENAI_API_KEY")
	case "gemini":
		providerKey = os.Getenv("GEMINI_API_KEY")
		defaultModel = "gemini-2.5-flash"
	default:
		providerKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	return LLMConfig{
		Provider: provider,
		APIKey:   firstNonEmpty(os.Getenv("LLM_API_KEY"), providerKey),
		BaseURL:  strings.TrimSpace(os.Getenv("LLM_BASE_URL")),
		Model:    firstNonEmpty(os.Getenv("LLM_MODEL"), defaultModel),
		Timeout:  envDuration("LLM_TIMEOUT", 120*time.Second),
		RPS:      envFloat("LLM_RPS", 0),
		Burst:    envInt("LLM_BURST", 1),
	}
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		Backend:     strings.ToLower(firstNonEmpty(os.Getenv("SESSION_STORE"), "memory")),
		SQLitePath:  firstNonEmpty(os.Getenv("SESSION_SQLITE_PATH"), "tmp/sessions.db"),
		PostgresDSN: strings.TrimSpace(os.Getenv("SESSION_PG_DSN")),
		TTL:         envDuration("SESSION_TTL", 24*time.Hour),
		MaxEntries:  envInt("SESSION_MAX", 1024),
	}
}

func loadArtifactConfig() ArtifactConfig {
	endpoint := firstNonEmpty(os.Getenv("ARTIFACT_S3_ENDPOINT"), os.Getenv("ARTIFACT_MINIO_ENDPOINT"))
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(os.Getenv("ARTIFACT_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(os.Getenv("ARTIFACT_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(os.Getenv("ARTIFACT_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(os.Getenv("ARTIFACT_S3_BUCKET"), "eightd-exports"),
		UseSSL:    envBool("ARTIFACT_S3_USE_SSL", os.Getenv("ARTIFACT_MINIO_ENDPOINT") == ""),
	}
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// LoadLLM reads only the model settings, for tools that do not run the server.
func LoadLLM() LLMConfig {
	_ = godotenv.Load()
	return loadLLMConfig()
}

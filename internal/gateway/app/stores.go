package app

import (
	"fmt"
	"log"

	"eightd/internal/artifact"
	"eightd/internal/gateway/config"
	"eightd/internal/session"
)

type gatewayStores struct {
	sessions session.Store
	artifact artifact.Store
}

func initStores(cfg *config.Config) (*gatewayStores, error) {
	sessions, err := initSessionStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	artifacts, err := chooseArtifactStore(cfg.Artifact, cfg.Session)
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}
	return &gatewayStores{sessions: sessions, artifact: artifacts}, nil
}

func initSessionStore(cfg config.SessionConfig) (session.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		log.Printf("session store: in-memory max=%d ttl=%s", cfg.MaxEntries, cfg.TTL)
		return session.NewMemoryStore(cfg.MaxEntries, cfg.TTL), nil
	case "sqlite":
		st, err := session.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite session store: %w", err)
		}
		log.Printf("session store: sqlite path=%s", cfg.SQLitePath)
		return st, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("SESSION_PG_DSN is required for the postgres session store")
		}
		st, err := session.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres session store: %w", err)
		}
		log.Printf("session store: postgres")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Backend)
	}
}

// chooseArtifactStore falls back to memory when S3 is not configured; the
// memory store ages files out on the same schedule as in-memory sessions.
func chooseArtifactStore(cfg config.ArtifactConfig, sess config.SessionConfig) (artifact.Store, error) {
	if !cfg.CanUseS3() {
		if cfg.Enabled {
			log.Printf("artifact store: using in-memory fallback (s3 config incomplete)")
		}
		return artifact.NewMemoryStore(sess.MaxEntries, sess.TTL), nil
	}
	s3Cfg := artifact.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	}
	st, err := artifact.NewS3Store(s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact s3 store: %w", err)
	}
	log.Printf("artifact store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
	return st, nil
}

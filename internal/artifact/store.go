// Package artifact stores exported documents (HTML, PDF, DOCX) per session.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store persists export files under a session id.
type Store interface {
	Put(ctx context.Context, sessionID, name string, content []byte, contentType string) error
	Get(ctx context.Context, sessionID, name string) ([]byte, error)
	// GetURL returns a download link, or "" when the backend has none.
	GetURL(ctx context.Context, sessionID, name string) (string, error)
	List(ctx context.Context, sessionID string) ([]string, error)
	// DeleteSession drops every file stored under sessionID.
	DeleteSession(ctx context.Context, sessionID string) error
}

var ErrNotFound = errors.New("artifact not found")

func objectKey(sessionID, name string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	return sessionID + "/" + name, nil
}

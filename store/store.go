// Package store defines the history storage interface and implementations.
package store

import (
	"context"

	"github.com/vietharvest/agrichat/domain"
)

// Store defines the interface for session and message persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetOrCreateSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.StoredMessage) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.StoredMessage, error)

	// Lifecycle
	Close() error
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"golang.org/x/oauth2"
)

// SessionRepository persists console sessions. Implementations seal the token
// pair before it is stored and fill Session.User and Session.Token on load.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// GetByID returns nil when the session does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	UpdateToken(ctx context.Context, id uuid.UUID, token *oauth2.Token) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired sessions and returns their ids
	DeleteExpired(ctx context.Context) ([]uuid.UUID, error)
}

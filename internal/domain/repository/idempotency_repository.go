package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-console/internal/domain/entity"
)

// IdempotencyRepository stores the responses of replay-protected requests
type IdempotencyRepository interface {
	// GetByKey returns nil when the key was not seen for this session
	GetByKey(ctx context.Context, key string, sessionID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) error
}

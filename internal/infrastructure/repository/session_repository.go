package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-console/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/utils"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRepository struct {
	db     *gorm.DB
	sealer *utils.Sealer
}

// NewSessionRepository creates a session repository sealing tokens with sealer
func NewSessionRepository(db *gorm.DB, sealer *utils.Sealer) domainRepo.SessionRepository {
	return &sessionRepository{db: db, sealer: sealer}
}

func (r *sessionRepository) seal(session *entity.Session) error {
	data, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	session.UserID = session.User.ID
	session.UserData = data

	if session.Token == nil {
		return errors.New("session has no token")
	}
	access, err := r.sealer.Seal([]byte(session.Token.AccessToken))
	if err != nil {
		return err
	}
	session.SealedAccessToken = access
	session.SealedRefreshToken = nil
	if session.Token.RefreshToken != "" {
		refresh, err := r.sealer.Seal([]byte(session.Token.RefreshToken))
		if err != nil {
			return err
		}
		session.SealedRefreshToken = refresh
	}
	session.TokenExpiry = session.Token.Expiry
	return nil
}

func (r *sessionRepository) open(session *entity.Session) error {
	if err := json.Unmarshal(session.UserData, &session.User); err != nil {
		return fmt.Errorf("decode session user: %w", err)
	}

	access, err := r.sealer.Open(session.SealedAccessToken)
	if err != nil {
		return err
	}
	token := &oauth2.Token{
		AccessToken: string(access),
		TokenType:   "Bearer",
		Expiry:      session.TokenExpiry,
	}
	if len(session.SealedRefreshToken) > 0 {
		refresh, err := r.sealer.Open(session.SealedRefreshToken)
		if err != nil {
			return err
		}
		token.RefreshToken = string(refresh)
	}
	session.Token = token
	return nil
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if err := r.seal(session); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	var session entity.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.open(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) UpdateToken(ctx context.Context, id uuid.UUID, token *oauth2.Token) error {
	access, err := r.sealer.Seal([]byte(token.AccessToken))
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"sealed_access_token": access,
		"token_expiry":        token.Expiry,
		"updated_at":          time.Now(),
	}
	if token.RefreshToken != "" {
		refresh, err := r.sealer.Seal([]byte(token.RefreshToken))
		if err != nil {
			return err
		}
		updates["sealed_refresh_token"] = refresh
	}
	return r.db.WithContext(ctx).
		Model(&entity.Session{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Session{}).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) ([]uuid.UUID, error) {
	var deleted []entity.Session
	err := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("expires_at < ?", time.Now()).
		Delete(&deleted).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(deleted))
	for _, s := range deleted {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

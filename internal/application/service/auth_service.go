package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// AuthBackend is the backend authentication surface
type AuthBackend interface {
	SignIn(ctx context.Context, email, password string) (*posapi.SignInResult, error)
	SignOut(ctx context.Context) error
	Verify(ctx context.Context) (*entity.User, error)
	RefreshCredentials(ctx context.Context, creds *posapi.Credentials) error
}

// SaleForgetter drops the sale state of a session
type SaleForgetter interface {
	Forget(sessionID string)
}

// AuthService signs cashiers in against the backend and keeps their sessions
type AuthService struct {
	backend    AuthBackend
	sessions   repository.SessionRepository
	jwtManager *utils.JWTManager
	sales      SaleForgetter
	refreshAt  time.Duration
	logger     *zap.Logger

	mu    sync.Mutex
	creds map[uuid.UUID]*posapi.Credentials
}

// NewAuthService creates a new auth service. Upstream tokens are refreshed
// once they are within refreshAt of expiring.
func NewAuthService(
	backend AuthBackend,
	sessions repository.SessionRepository,
	jwtManager *utils.JWTManager,
	sales SaleForgetter,
	refreshAt time.Duration,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		backend:    backend,
		sessions:   sessions,
		jwtManager: jwtManager,
		sales:      sales,
		refreshAt:  refreshAt,
		logger:     logger,
		creds:      make(map[uuid.UUID]*posapi.Credentials),
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Login signs in against the backend and opens a console session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	res, err := s.backend.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		if appErr := apperror.GetAppError(err); appErr.Code == http.StatusUnauthorized {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	role := res.User.ConsoleRole()
	if role == "" {
		return nil, apperror.NewAppError(http.StatusForbidden, "Your role cannot use the console")
	}

	now := time.Now()
	session := &entity.Session{
		User:      res.User,
		Token:     res.Token,
		ExpiresAt: now.Add(s.jwtManager.Expiry()),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateSessionToken(session.ID, res.User.ID, string(role))
	if err != nil {
		return nil, err
	}

	s.logger.Info("console session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("user_id", res.User.ID),
		zap.String("role", string(role)))

	user := res.User
	return &LoginOutput{User: &user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// RestoredSession is a console session ready to call the backend
type RestoredSession struct {
	Session     *entity.Session
	Credentials *posapi.Credentials
}

// Restore loads the session named by a validated console token. An upstream
// token close to expiry is refreshed before the request proceeds.
func (s *AuthService) Restore(ctx context.Context, claims *utils.JWTClaims) (*RestoredSession, error) {
	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired() || session.UserID != claims.UserID {
		s.dropCredentials(claims.SessionID)
		return nil, apperror.ErrSessionExpired
	}

	creds := s.credentials(session)
	if creds.Expired() {
		return nil, apperror.ErrSessionExpired
	}

	if tok := creds.Token(); tok != nil && !tok.Expiry.IsZero() && time.Until(tok.Expiry) < s.refreshAt {
		if err := s.backend.RefreshCredentials(ctx, creds); err != nil {
			// The current token still works until it expires; a 401 retries later.
			if creds.Expired() || errors.Is(err, apperror.ErrSessionExpired) || !tok.Valid() {
				return nil, err
			}
			s.logger.Warn("proactive token refresh failed",
				zap.String("session_id", session.ID.String()), zap.Error(err))
		}
	}

	return &RestoredSession{Session: session, Credentials: creds}, nil
}

// credentials returns the shared credentials of a session so that all its
// in-flight requests refresh through one place.
func (s *AuthService) credentials(session *entity.Session) *posapi.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	if creds, ok := s.creds[session.ID]; ok && !creds.Expired() {
		return creds
	}

	id := session.ID
	creds := posapi.NewCredentials(session.Token)
	creds.OnRefresh(func(ctx context.Context, tok *oauth2.Token) error {
		return s.sessions.UpdateToken(context.WithoutCancel(ctx), id, tok)
	})
	creds.OnExpire(func(ctx context.Context) {
		s.logger.Info("console session expired", zap.String("session_id", id.String()))
		if err := s.sessions.Delete(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn("failed to delete expired session", zap.String("session_id", id.String()), zap.Error(err))
		}
		s.dropCredentials(id)
		if s.sales != nil {
			s.sales.Forget(id.String())
		}
	})
	s.creds[id] = creds
	return creds
}

func (s *AuthService) dropCredentials(id uuid.UUID) {
	s.mu.Lock()
	delete(s.creds, id)
	s.mu.Unlock()
}

// Verify checks the session against the backend and returns the current user
func (s *AuthService) Verify(ctx context.Context, creds *posapi.Credentials) (*entity.User, error) {
	return s.backend.Verify(posapi.WithCredentials(ctx, creds))
}

// Logout signs out upstream and deletes the session. The upstream sign-out is
// best effort; the local session is removed regardless.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID, creds *posapi.Credentials) error {
	if creds != nil && !creds.Expired() {
		if err := s.backend.SignOut(posapi.WithCredentials(ctx, creds)); err != nil {
			s.logger.Warn("upstream sign-out failed", zap.String("session_id", sessionID.String()), zap.Error(err))
		}
	}

	s.dropCredentials(sessionID)
	if s.sales != nil {
		s.sales.Forget(sessionID.String())
	}
	return s.sessions.Delete(ctx, sessionID)
}

// CleanupExpired removes expired sessions along with their credentials and
// sales held in memory
func (s *AuthService) CleanupExpired(ctx context.Context) error {
	ids, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.dropCredentials(id)
		if s.sales != nil {
			s.sales.Forget(id.String())
		}
	}
	if len(ids) > 0 {
		s.logger.Info("expired console sessions removed", zap.Int("count", len(ids)))
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type memSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
	updated  []*oauth2.Token
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[uuid.UUID]entity.Session{}}
}

func (m *memSessions) Create(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.UserID = s.User.ID
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	tok := *s.Token
	s.Token = &tok
	return &s, nil
}

func (m *memSessions) UpdateToken(_ context.Context, id uuid.UUID, token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, token)
	if s, ok := m.sessions[id]; ok {
		s.Token = token
		m.sessions[id] = s
	}
	return nil
}

func (m *memSessions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memSessions) DeleteExpired(context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uuid.UUID
	for id, s := range m.sessions {
		if s.IsExpired() {
			ids = append(ids, id)
			delete(m.sessions, id)
		}
	}
	return ids, nil
}

type stubAuthBackend struct {
	user       entity.User
	token      *oauth2.Token
	signInErr  error
	refreshErr error
	refreshes  int
	signOuts   int
}

func (b *stubAuthBackend) SignIn(_ context.Context, _, _ string) (*posapi.SignInResult, error) {
	if b.signInErr != nil {
		return nil, b.signInErr
	}
	tok := *b.token
	return &posapi.SignInResult{User: b.user, Token: &tok}, nil
}

func (b *stubAuthBackend) SignOut(ctx context.Context) error {
	if posapi.CredentialsFrom(ctx) == nil {
		return errors.New("no credentials")
	}
	b.signOuts++
	return nil
}

func (b *stubAuthBackend) Verify(ctx context.Context) (*entity.User, error) {
	if posapi.CredentialsFrom(ctx) == nil {
		return nil, apperror.ErrSessionExpired
	}
	u := b.user
	return &u, nil
}

// RefreshCredentials mimics the client: a successful refresh goes through the
// credentials' refresh hook, a failed one expires them.
func (b *stubAuthBackend) RefreshCredentials(ctx context.Context, creds *posapi.Credentials) error {
	b.refreshes++
	if b.refreshErr != nil {
		return b.refreshErr
	}
	return nil
}

type forgetter struct{ forgotten []string }

func (f *forgetter) Forget(id string) { f.forgotten = append(f.forgotten, id) }

func newAuthFixture(tok *oauth2.Token) (*AuthService, *stubAuthBackend, *memSessions, *forgetter, *utils.JWTManager) {
	backend := &stubAuthBackend{
		user:  entity.User{ID: "u-1", Name: "Ann", Role: "Cashier", BusinessID: strPtr("b-1")},
		token: tok,
	}
	sessions := newMemSessions()
	jwtManager := utils.NewJWTManager("secret", time.Hour, "pos-console")
	sales := &forgetter{}
	return NewAuthService(backend, sessions, jwtManager, sales, time.Minute, nil), backend, sessions, sales, jwtManager
}

func TestAuthService_LoginIssuesSessionToken(t *testing.T) {
	svc, _, sessions, _, jwtManager := newAuthFixture(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1", Expiry: time.Now().Add(time.Hour)})

	out, err := svc.Login(context.Background(), &LoginInput{Email: "ann@example.com", Password: "pw"})

	require.NoError(t, err)
	claims, err := jwtManager.ValidateSessionToken(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "cashier", claims.Role)
	assert.Contains(t, sessions.sessions, claims.SessionID)
}

func TestAuthService_LoginMapsUpstreamUnauthorized(t *testing.T) {
	svc, backend, _, _, _ := newAuthFixture(&oauth2.Token{AccessToken: "a1"})
	backend.signInErr = apperror.NewUpstreamError(401, "Invalid credentials")

	_, err := svc.Login(context.Background(), &LoginInput{Email: "x", Password: "y"})

	assert.Equal(t, apperror.ErrInvalidCredentials, err)
}

func TestAuthService_LoginRejectsUnknownRole(t *testing.T) {
	svc, backend, _, _, _ := newAuthFixture(&oauth2.Token{AccessToken: "a1"})
	backend.user.Role = "accountant"

	_, err := svc.Login(context.Background(), &LoginInput{Email: "x", Password: "y"})

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 403, appErr.Code)
}

func login(t *testing.T, svc *AuthService, jwtManager *utils.JWTManager) *utils.JWTClaims {
	t.Helper()
	out, err := svc.Login(context.Background(), &LoginInput{Email: "a", Password: "b"})
	require.NoError(t, err)
	claims, err := jwtManager.ValidateSessionToken(out.Token)
	require.NoError(t, err)
	return claims
}

func TestAuthService_RestoreSharesCredentials(t *testing.T) {
	svc, backend, _, _, jwtManager := newAuthFixture(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1", Expiry: time.Now().Add(time.Hour)})
	claims := login(t, svc, jwtManager)

	first, err := svc.Restore(context.Background(), claims)
	require.NoError(t, err)
	second, err := svc.Restore(context.Background(), claims)
	require.NoError(t, err)

	assert.Same(t, first.Credentials, second.Credentials)
	assert.Equal(t, "a1", first.Credentials.AccessToken())
	assert.Zero(t, backend.refreshes)
}

func TestAuthService_RestoreRefreshesNearExpiry(t *testing.T) {
	svc, backend, _, _, jwtManager := newAuthFixture(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1", Expiry: time.Now().Add(10 * time.Second)})
	claims := login(t, svc, jwtManager)

	_, err := svc.Restore(context.Background(), claims)

	require.NoError(t, err)
	assert.Equal(t, 1, backend.refreshes)
}

func TestAuthService_RestoreUnknownSession(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(&oauth2.Token{AccessToken: "a1"})

	_, err := svc.Restore(context.Background(), &utils.JWTClaims{SessionID: uuid.New(), UserID: "u-1"})

	assert.True(t, errors.Is(err, apperror.ErrSessionExpired))
}

func TestAuthService_RestoreRejectsForeignUser(t *testing.T) {
	svc, _, _, _, jwtManager := newAuthFixture(&oauth2.Token{AccessToken: "a1", Expiry: time.Now().Add(time.Hour)})
	claims := login(t, svc, jwtManager)
	claims.UserID = "u-2"

	_, err := svc.Restore(context.Background(), claims)

	assert.True(t, errors.Is(err, apperror.ErrSessionExpired))
}

func TestAuthService_LogoutDeletesSession(t *testing.T) {
	svc, backend, sessions, sales, jwtManager := newAuthFixture(&oauth2.Token{AccessToken: "a1", Expiry: time.Now().Add(time.Hour)})
	claims := login(t, svc, jwtManager)
	restored, err := svc.Restore(context.Background(), claims)
	require.NoError(t, err)

	err = svc.Logout(context.Background(), claims.SessionID, restored.Credentials)

	require.NoError(t, err)
	assert.Equal(t, 1, backend.signOuts)
	assert.NotContains(t, sessions.sessions, claims.SessionID)
	assert.Equal(t, []string{claims.SessionID.String()}, sales.forgotten)

	_, err = svc.Restore(context.Background(), claims)
	assert.True(t, errors.Is(err, apperror.ErrSessionExpired))
}

func TestAuthService_Verify(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(&oauth2.Token{AccessToken: "a1"})

	user, err := svc.Verify(context.Background(), posapi.NewCredentials(&oauth2.Token{AccessToken: "a1"}))

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
}

func TestAuthService_CleanupExpiredReleasesMemory(t *testing.T) {
	svc, _, sessions, sales, jwtManager := newAuthFixture(&oauth2.Token{AccessToken: "a1", Expiry: time.Now().Add(time.Hour)})
	stale := login(t, svc, jwtManager)
	live := login(t, svc, jwtManager)
	for _, c := range []*utils.JWTClaims{stale, live} {
		_, err := svc.Restore(context.Background(), c)
		require.NoError(t, err)
	}

	s := sessions.sessions[stale.SessionID]
	s.ExpiresAt = time.Now().Add(-time.Minute)
	sessions.sessions[stale.SessionID] = s

	require.NoError(t, svc.CleanupExpired(context.Background()))

	assert.NotContains(t, sessions.sessions, stale.SessionID)
	assert.Contains(t, sessions.sessions, live.SessionID)
	assert.NotContains(t, svc.creds, stale.SessionID)
	assert.Contains(t, svc.creds, live.SessionID)
	assert.Equal(t, []string{stale.SessionID.String()}, sales.forgotten)
}

func TestAuthService_RestoreKeepsSessionOnRefreshOutage(t *testing.T) {
	svc, backend, sessions, _, jwtManager := newAuthFixture(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1", Expiry: time.Now().Add(30 * time.Second)})
	claims := login(t, svc, jwtManager)
	backend.refreshErr = apperror.NewUpstreamError(503, "maintenance")

	restored, err := svc.Restore(context.Background(), claims)

	require.NoError(t, err)
	assert.Equal(t, "a1", restored.Credentials.AccessToken())
	assert.Contains(t, sessions.sessions, claims.SessionID)
}

func TestAuthService_RestoreFailsWhenRefreshRejected(t *testing.T) {
	svc, backend, _, _, jwtManager := newAuthFixture(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1", Expiry: time.Now().Add(30 * time.Second)})
	claims := login(t, svc, jwtManager)
	backend.refreshErr = apperror.ErrSessionExpired

	_, err := svc.Restore(context.Background(), claims)

	assert.True(t, errors.Is(err, apperror.ErrSessionExpired))
}

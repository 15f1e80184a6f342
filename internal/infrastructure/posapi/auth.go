package posapi

import (
	"context"
	"net/http"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/utils"
	"golang.org/x/oauth2"
)

// AuthAPI covers the backend authentication endpoints
type AuthAPI struct {
	c *Client
}

// SignInResult is the outcome of a successful sign-in
type SignInResult struct {
	User  entity.User
	Token *oauth2.Token
}

type tokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         *entity.User `json:"user"`
}

func (t *tokenResponse) token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
	}
	if exp, ok := utils.UpstreamTokenExpiry(t.AccessToken); ok {
		tok.Expiry = exp
	} else if t.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok
}

// SignIn exchanges credentials for a token pair and the user
func (a *AuthAPI) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	var resp tokenResponse
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/sign-in",
		body:   map[string]string{"email": email, "password": password},
		noAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	result := &SignInResult{Token: resp.token()}
	if resp.User != nil {
		result.User = *resp.User
	}
	return result, nil
}

// Refresh exchanges a refresh token for a new pair
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	var resp tokenResponse
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   map[string]string{"refreshToken": refreshToken},
		noAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.token(), nil
}

// SignOut revokes the session's tokens upstream
func (a *AuthAPI) SignOut(ctx context.Context) error {
	return a.c.do(ctx, request{method: http.MethodPost, path: "/auth/sign-out"}, nil)
}

// Verify checks the current access token and returns the user it belongs to
func (a *AuthAPI) Verify(ctx context.Context) (*entity.User, error) {
	var resp struct {
		Valid bool         `json:"valid"`
		User  *entity.User `json:"user"`
	}
	if err := a.c.do(ctx, request{method: http.MethodGet, path: "/auth/verify"}, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid || resp.User == nil {
		return nil, apperror.ErrSessionExpired
	}
	return resp.User, nil
}

// RefreshCredentials refreshes the pair held by creds ahead of expiry. It
// shares the in-flight refresh with requests that hit a 401 meanwhile.
func (a *AuthAPI) RefreshCredentials(ctx context.Context, creds *Credentials) error {
	_, err := a.c.refresh(ctx, creds, creds.AccessToken())
	return err
}

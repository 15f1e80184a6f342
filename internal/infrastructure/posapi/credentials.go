package posapi

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

type credentialsKey struct{}

// Credentials holds the backend token pair of one console session. A single
// Credentials value is shared by every request of the session so that
// concurrent 401s wait on one refresh.
type Credentials struct {
	mu      sync.Mutex
	token   *oauth2.Token
	expired bool
	group   singleflight.Group

	onRefresh func(ctx context.Context, token *oauth2.Token) error
	onExpire  func(ctx context.Context)
}

// NewCredentials wraps a token pair
func NewCredentials(token *oauth2.Token) *Credentials {
	return &Credentials{token: token}
}

// OnRefresh registers a callback invoked after a successful refresh, used to
// persist the new pair.
func (c *Credentials) OnRefresh(fn func(ctx context.Context, token *oauth2.Token) error) {
	c.mu.Lock()
	c.onRefresh = fn
	c.mu.Unlock()
}

// OnExpire registers a callback invoked once when the refresh fails.
func (c *Credentials) OnExpire(fn func(ctx context.Context)) {
	c.mu.Lock()
	c.onExpire = fn
	c.mu.Unlock()
}

// Token returns a copy of the current token pair
func (c *Credentials) Token() *oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil {
		return nil
	}
	t := *c.token
	return &t
}

// AccessToken returns the current access token or "" once expired
func (c *Credentials) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil || c.expired {
		return ""
	}
	return c.token.AccessToken
}

// Expired reports whether the session credentials were cleared
func (c *Credentials) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

func (c *Credentials) set(ctx context.Context, token *oauth2.Token) error {
	c.mu.Lock()
	if token.RefreshToken == "" && c.token != nil {
		token.RefreshToken = c.token.RefreshToken
	}
	c.token = token
	fn := c.onRefresh
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, token)
	}
	return nil
}

func (c *Credentials) expire(ctx context.Context) {
	c.mu.Lock()
	if c.expired {
		c.mu.Unlock()
		return
	}
	c.expired = true
	c.token = nil
	fn := c.onExpire
	c.mu.Unlock()

	if fn != nil {
		fn(ctx)
	}
}

// WithCredentials attaches session credentials to the request context
func WithCredentials(ctx context.Context, creds *Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom extracts session credentials from the context
func CredentialsFrom(ctx context.Context) *Credentials {
	creds, _ := ctx.Value(credentialsKey{}).(*Credentials)
	return creds
}

package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
	"go.uber.org/zap"
)

// Config holds the settings of the backend client
type Config struct {
	BaseURL string
	// Timeout is handed to the http.Client; zero keeps the client default.
	Timeout time.Duration
}

const defaultRefreshTimeout = 30 * time.Second

// Client is the typed HTTP client of the POS REST backend
type Client struct {
	baseURL        string
	http           *http.Client
	logger         *zap.Logger
	refreshTimeout time.Duration

	Auth           *AuthAPI
	Orders         *OrdersAPI
	Shifts         *ShiftsAPI
	Products       *ProductsAPI
	Categories     *Resource[entity.Category]
	Subcategories  *Resource[entity.Subcategory]
	Taxes          *Resource[entity.Tax]
	PaymentMethods *Resource[entity.PaymentMethod]
	Customers      *Resource[entity.Customer]
	Branches       *Resource[entity.Branch]
	Tables         *TablesAPI
	TableOrders    *TableOrdersAPI
	Settings       *SettingsAPI
}

// New creates a backend client
func New(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	refreshTimeout := cfg.Timeout
	if refreshTimeout <= 0 {
		refreshTimeout = defaultRefreshTimeout
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           httpClient,
		logger:         logger,
		refreshTimeout: refreshTimeout,
	}
	c.Auth = &AuthAPI{c: c}
	c.Orders = &OrdersAPI{c: c}
	c.Shifts = &ShiftsAPI{c: c}
	c.Products = &ProductsAPI{Resource: NewResource[entity.Product](c, "/products")}
	c.Categories = NewResource[entity.Category](c, "/categories")
	c.Subcategories = NewResource[entity.Subcategory](c, "/subcategories")
	c.Taxes = NewResource[entity.Tax](c, "/taxes")
	c.PaymentMethods = NewResource[entity.PaymentMethod](c, "/payment-methods")
	c.Customers = NewResource[entity.Customer](c, "/customers")
	c.Branches = NewResource[entity.Branch](c, "/branches")
	c.Tables = &TablesAPI{Resource: NewResource[entity.Table](c, "/tables")}
	c.TableOrders = &TableOrdersAPI{c: c}
	c.Settings = &SettingsAPI{c: c}
	return c
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    interface{}
	headers map[string]string
	noAuth  bool
}

// do performs the request with the session credentials found in ctx. A 401 is
// answered with one token refresh and one retry; nothing else is retried.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	var payload []byte
	if req.body != nil {
		var err error
		payload, err = json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("posapi: encode %s %s: %w", req.method, req.path, err)
		}
	}

	var creds *Credentials
	var access string
	if !req.noAuth {
		creds = CredentialsFrom(ctx)
		if creds != nil {
			if creds.Expired() {
				return apperror.ErrSessionExpired
			}
			access = creds.AccessToken()
		}
	}

	resp, err := c.send(ctx, req, payload, access)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && creds != nil {
		drain(resp)
		fresh, err := c.refresh(ctx, creds, access)
		if err != nil {
			return err
		}
		resp, err = c.send(ctx, req, payload, fresh)
		if err != nil {
			return err
		}
	}

	return c.decode(resp, req, out)
}

func (c *Client) send(ctx context.Context, req request, payload []byte, access string) (*http.Response, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("posapi: build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err))
		return nil, apperror.NewUpstreamError(http.StatusBadGateway, "POS backend is unreachable")
	}

	c.logger.Debug("backend request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	return resp, nil
}

// refresh exchanges the refresh token once for all requests that failed with
// the same stale access token. The exchange is detached from the caller's
// context since its result is shared by every waiting request. Only a
// rejection by the backend ends the session; transport failures are returned
// and the next 401 tries again.
func (c *Client) refresh(ctx context.Context, creds *Credentials, stale string) (string, error) {
	v, err, _ := creds.group.Do("refresh", func() (interface{}, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()

		current := creds.Token()
		if current == nil || creds.Expired() {
			return nil, apperror.ErrSessionExpired
		}
		if current.AccessToken != stale {
			return current.AccessToken, nil
		}
		if current.RefreshToken == "" {
			creds.expire(refreshCtx)
			return nil, apperror.ErrSessionExpired
		}

		token, err := c.Auth.Refresh(refreshCtx, current.RefreshToken)
		if err != nil {
			if !refreshRejected(err) {
				c.logger.Warn("token refresh failed, keeping session", zap.Error(err))
				return nil, err
			}
			c.logger.Warn("token refresh rejected, clearing session", zap.Error(err))
			creds.expire(refreshCtx)
			return nil, apperror.ErrSessionExpired
		}
		if err := creds.set(refreshCtx, token); err != nil {
			c.logger.Warn("persisting refreshed token failed", zap.Error(err))
		}
		return token.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refreshRejected reports whether the backend refused the refresh token, as
// opposed to the exchange not completing.
func refreshRejected(err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Kind != apperror.KindUpstream {
		return false
	}
	switch appErr.Code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return appErr.Code >= 400 && appErr.Code < 500
}

func (c *Client) decode(resp *http.Response, req request, out interface{}) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("posapi: read %s %s: %w", req.method, req.path, err)
	}

	if resp.StatusCode >= 400 {
		return apperror.NewUpstreamError(resp.StatusCode, extractMessage(raw, resp.StatusCode))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	normalized, err := Normalize(raw)
	if err != nil {
		return apperror.NewUpstreamError(http.StatusBadGateway, "POS backend returned an unreadable response")
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		c.logger.Warn("backend response did not match the expected shape",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err))
		return apperror.NewUpstreamError(http.StatusBadGateway, "POS backend returned an unexpected response")
	}
	return nil
}

// extractMessage makes a best effort to pull a human message out of an error
// body: "message" as string or list, "error" as string or object.
func extractMessage(raw []byte, status int) string {
	var body struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := rawText(body.Message); msg != "" {
			return msg
		}
		if msg := rawText(body.Error); msg != "" {
			return msg
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func escape(id string) string {
	return url.PathEscape(id)
}

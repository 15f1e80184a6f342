package posapi

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// SettingsAPI covers business-wide settings
type SettingsAPI struct {
	c *Client
}

// Get returns the settings of the caller's business
func (s *SettingsAPI) Get(ctx context.Context) (*entity.BusinessSettings, error) {
	var out entity.BusinessSettings
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/business/settings"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the settings of the caller's business
func (s *SettingsAPI) Update(ctx context.Context, settings entity.BusinessSettings) (*entity.BusinessSettings, error) {
	var out entity.BusinessSettings
	if err := s.c.do(ctx, request{method: http.MethodPut, path: "/business/settings", body: settings}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

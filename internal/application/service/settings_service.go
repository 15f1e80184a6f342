package service

import (
	"context"
	"strings"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
)

// SettingsAPI is the backend business settings surface
type SettingsAPI interface {
	Get(ctx context.Context) (*entity.BusinessSettings, error)
	Update(ctx context.Context, settings entity.BusinessSettings) (*entity.BusinessSettings, error)
}

// SettingsService handles business settings from the admin views
type SettingsService struct {
	api             SettingsAPI
	defaultCurrency string
}

// NewSettingsService creates a new settings service
func NewSettingsService(api SettingsAPI, defaultCurrency string) *SettingsService {
	return &SettingsService{api: api, defaultCurrency: defaultCurrency}
}

// GetSettings returns the settings of the user's business, filling the
// currency when the backend has none.
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.BusinessSettings, error) {
	settings, err := s.api.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.Currency == "" {
		settings.Currency = s.defaultCurrency
	}
	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	Name          *string
	TaxID         *string
	Address       *string
	Phone         *string
	Currency      *string
	ReceiptFooter *string
}

// UpdateSettings applies the provided fields over the current settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.BusinessSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name is required"}})
		}
		settings.Name = name
	}
	if input.TaxID != nil {
		settings.TaxID = input.TaxID
	}
	if input.Address != nil {
		settings.Address = input.Address
	}
	if input.Phone != nil {
		settings.Phone = input.Phone
	}
	if input.Currency != nil {
		settings.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.ReceiptFooter != nil {
		settings.ReceiptFooter = input.ReceiptFooter
	}

	return s.api.Update(ctx, *settings)
}

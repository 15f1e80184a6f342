package posapi

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ShiftsAPI covers the cashier shift endpoints
type ShiftsAPI struct {
	c *Client
}

// Active returns the caller's open shift, or nil when none is open
func (s *ShiftsAPI) Active(ctx context.Context) (*entity.Shift, error) {
	var out *entity.Shift
	err := s.c.do(ctx, request{method: http.MethodGet, path: "/shifts/active"}, &out)
	if err != nil {
		if appErr := apperror.GetAppError(err); appErr != nil && appErr.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if out != nil && out.ID == "" {
		return nil, nil
	}
	return out, nil
}

// Start opens a shift with the counted opening cash
func (s *ShiftsAPI) Start(ctx context.Context, initialCash decimal.Decimal, branchID *string) (*entity.Shift, error) {
	body := struct {
		InitialCash decimal.Decimal `json:"initialCash"`
		BranchID    *string         `json:"branchId,omitempty"`
	}{initialCash, branchID}

	var out entity.Shift
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/shifts/start", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// End closes a shift with the counted closing cash
func (s *ShiftsAPI) End(ctx context.Context, shiftID string, finalCash decimal.Decimal, notes *string) (*entity.Shift, error) {
	body := struct {
		FinalCash decimal.Decimal `json:"finalCash"`
		Notes     *string         `json:"notes,omitempty"`
	}{finalCash, notes}

	var out entity.Shift
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/shifts/" + escape(shiftID) + "/end", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

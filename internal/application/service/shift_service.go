package service

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ShiftAPI is the backend shift surface
type ShiftAPI interface {
	Active(ctx context.Context) (*entity.Shift, error)
	Start(ctx context.Context, initialCash decimal.Decimal, branchID *string) (*entity.Shift, error)
	End(ctx context.Context, shiftID string, finalCash decimal.Decimal, notes *string) (*entity.Shift, error)
}

// ShiftService handles cashier shifts
type ShiftService struct {
	shifts ShiftAPI
}

// NewShiftService creates a new shift service
func NewShiftService(shifts ShiftAPI) *ShiftService {
	return &ShiftService{shifts: shifts}
}

// Active returns the caller's open shift or nil
func (s *ShiftService) Active(ctx context.Context) (*entity.Shift, error) {
	return s.shifts.Active(ctx)
}

// Start opens a shift. Only one shift may be open at a time.
func (s *ShiftService) Start(ctx context.Context, user *entity.User, initialCash decimal.Decimal) (*entity.Shift, error) {
	if initialCash.IsNegative() {
		return nil, apperror.NewBadRequestError("Opening cash cannot be negative")
	}

	active, err := s.shifts.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperror.NewAppError(http.StatusConflict, "A shift is already open")
	}

	return s.shifts.Start(ctx, initialCash, user.BranchID())
}

// End closes the caller's open shift
func (s *ShiftService) End(ctx context.Context, finalCash decimal.Decimal, notes *string) (*entity.Shift, error) {
	if finalCash.IsNegative() {
		return nil, apperror.NewBadRequestError("Closing cash cannot be negative")
	}

	active, err := s.shifts.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, apperror.NewNotFoundError("Open shift")
	}

	return s.shifts.End(ctx, active.ID, finalCash, notes)
}

package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubShifts struct {
	active   *entity.Shift
	started  []*string
	endedID  string
	endNotes *string
}

func (s *stubShifts) Active(context.Context) (*entity.Shift, error) {
	return s.active, nil
}

func (s *stubShifts) Start(_ context.Context, cash decimal.Decimal, branchID *string) (*entity.Shift, error) {
	s.started = append(s.started, branchID)
	s.active = &entity.Shift{ID: "sh-1", InitialCash: cash, BranchID: branchID}
	return s.active, nil
}

func (s *stubShifts) End(_ context.Context, id string, cash decimal.Decimal, notes *string) (*entity.Shift, error) {
	s.endedID = id
	s.endNotes = notes
	return &entity.Shift{ID: id, FinalCash: &cash, Notes: notes}, nil
}

func TestShiftStartUsesUserBranch(t *testing.T) {
	shifts := &stubShifts{}
	svc := NewShiftService(shifts)
	user := cashier()
	user.Branch = &entity.Branch{ID: "br-1", BusinessID: "b-1"}

	shift, err := svc.Start(context.Background(), user, dec("100"))
	require.NoError(t, err)
	assert.True(t, shift.InitialCash.Equal(dec("100")))
	require.Len(t, shifts.started, 1)
	require.NotNil(t, shifts.started[0])
	assert.Equal(t, "br-1", *shifts.started[0])
}

func TestShiftStartRefusesSecondShift(t *testing.T) {
	shifts := &stubShifts{active: &entity.Shift{ID: "sh-0"}}
	svc := NewShiftService(shifts)

	_, err := svc.Start(context.Background(), cashier(), dec("10"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	assert.Empty(t, shifts.started)
}

func TestShiftStartRejectsNegativeCash(t *testing.T) {
	svc := NewShiftService(&stubShifts{})
	_, err := svc.Start(context.Background(), cashier(), dec("-1"))
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestShiftEndClosesActiveShift(t *testing.T) {
	shifts := &stubShifts{active: &entity.Shift{ID: "sh-7"}}
	svc := NewShiftService(shifts)

	shift, err := svc.End(context.Background(), dec("250.5"), strPtr("short 2"))
	require.NoError(t, err)
	assert.Equal(t, "sh-7", shifts.endedID)
	require.NotNil(t, shift.FinalCash)
	assert.True(t, shift.FinalCash.Equal(dec("250.5")))
	assert.Equal(t, "short 2", *shifts.endNotes)
}

func TestShiftEndWithoutOpenShift(t *testing.T) {
	svc := NewShiftService(&stubShifts{})
	_, err := svc.End(context.Background(), dec("1"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

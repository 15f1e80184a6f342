package service

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTables struct {
	tables       []entity.Table
	availableFor string
}

func (s *stubTables) List(context.Context, url.Values) ([]entity.Table, error) {
	return s.tables, nil
}

func (s *stubTables) Available(_ context.Context, branchID string) ([]entity.Table, error) {
	s.availableFor = branchID
	return s.tables, nil
}

type stubTableOrders struct {
	orders  map[string]*entity.TableOrder
	created []posapi.CreateTableOrderInput
	gets    int
}

func (s *stubTableOrders) Create(_ context.Context, input posapi.CreateTableOrderInput) (*entity.TableOrder, error) {
	s.created = append(s.created, input)
	to := &entity.TableOrder{ID: "to-new", TableID: input.TableID, WaiterID: input.WaiterID, Guests: input.Guests, Status: "OPEN"}
	s.orders[to.ID] = to
	return to, nil
}

func (s *stubTableOrders) Get(_ context.Context, id string) (*entity.TableOrder, error) {
	s.gets++
	to, ok := s.orders[id]
	if !ok {
		return nil, apperror.NewUpstreamError(http.StatusNotFound, "Table order not found")
	}
	cp := *to
	return &cp, nil
}

func (s *stubTableOrders) List(context.Context, bool) ([]entity.TableOrder, error) {
	var out []entity.TableOrder
	for _, to := range s.orders {
		if to.IsOpen() {
			out = append(out, *to)
		}
	}
	return out, nil
}

func (s *stubTableOrders) Close(_ context.Context, id string) (*entity.TableOrder, error) {
	to := s.orders[id]
	now := time.Now()
	to.ClosedAt = &now
	to.Status = "CLOSED"
	return to, nil
}

func waiter() *entity.User {
	return &entity.User{ID: "u-w", Name: "Wes", Role: "waiter", BusinessID: strPtr("b-1"),
		Branch: &entity.Branch{ID: "br-1", BusinessID: "b-1"}}
}

func newTableFixture() (*TableService, *stubTableOrders, *stubOrders, *stubTables) {
	tables := &stubTables{tables: []entity.Table{{ID: "t1", Number: "1"}}}
	tableOrders := &stubTableOrders{orders: map[string]*entity.TableOrder{
		"to-1": {ID: "to-1", TableID: "t1", Status: "OPEN"},
	}}
	orders := newStubOrders(coffee, bagel)
	catalog := newStubCatalog(coffee, bagel)
	catalog.taxes = []entity.Tax{vat}
	return NewTableService(tables, tableOrders, orders, catalog, nil), tableOrders, orders, tables
}

func TestSeatRequiresGuests(t *testing.T) {
	svc, tableOrders, _, _ := newTableFixture()

	_, err := svc.Seat(context.Background(), waiter(), "t1", 0)
	require.Error(t, err)
	assert.Empty(t, tableOrders.created)

	to, err := svc.Seat(context.Background(), waiter(), "t1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, to.Guests)
	assert.Equal(t, "u-w", tableOrders.created[0].WaiterID)
}

func TestAvailableUsesBranch(t *testing.T) {
	svc, _, _, tables := newTableFixture()

	got, err := svc.Available(context.Background(), waiter())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "br-1", tables.availableFor)
}

func TestCreateWaiterOrderAddsItemsUnderTable(t *testing.T) {
	svc, tableOrders, orders, _ := newTableFixture()

	_, err := svc.CreateWaiterOrder(context.Background(), waiter(), "to-1", []WaiterItem{
		{ProductID: coffee.ID, Quantity: 2},
		{ProductID: bagel.ID, Quantity: 1},
	}, strPtr("no onions"))
	require.NoError(t, err)

	// coffee is keyed by its barcode
	assert.Equal(t, []string{"create", "addItem:7501", "addItem:" + bagel.ID}, orders.Calls())
	assert.Equal(t, 2, tableOrders.gets, "table order is read before and after")

	o := orders.orders["o1"]
	require.NotNil(t, o)
	assert.Len(t, o.Items, 2)
}

func TestCreateWaiterOrderRefusesClosedTable(t *testing.T) {
	svc, tableOrders, orders, _ := newTableFixture()
	_, err := svc.CloseTable(context.Background(), "to-1")
	require.NoError(t, err)
	require.False(t, tableOrders.orders["to-1"].IsOpen())

	_, err = svc.CreateWaiterOrder(context.Background(), waiter(), "to-1", []WaiterItem{{ProductID: bagel.ID, Quantity: 1}}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	assert.Empty(t, orders.Calls())
}

func TestCreateWaiterOrderNeedsItemsAndBusiness(t *testing.T) {
	svc, _, _, _ := newTableFixture()

	_, err := svc.CreateWaiterOrder(context.Background(), waiter(), "to-1", nil, nil)
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)

	orphan := &entity.User{ID: "u-x", Role: "waiter"}
	_, err = svc.CreateWaiterOrder(context.Background(), orphan, "to-1", []WaiterItem{{ProductID: bagel.ID, Quantity: 1}}, nil)
	assert.ErrorIs(t, err, apperror.ErrMissingBusinessContext)
}

func TestCreateWaiterOrderCancelsOnRejectedItem(t *testing.T) {
	svc, _, orders, _ := newTableFixture()
	orders.failAddItem = apperror.NewUpstreamError(400, "Product out of stock")
	orders.failAddItemKey = bagel.ID

	_, err := svc.CreateWaiterOrder(context.Background(), waiter(), "to-1", []WaiterItem{
		{ProductID: coffee.ID, Quantity: 1},
		{ProductID: bagel.ID, Quantity: 1},
	}, nil)

	require.Error(t, err)
	assert.Equal(t, []string{"create", "addItem:7501", "addItem:" + bagel.ID, "cancel"}, orders.Calls())
	assert.Equal(t, enum.OrderStatusCancelled, orders.orders["o1"].Status)
}

func TestCreateWaiterOrderValidatesLinesFirst(t *testing.T) {
	svc, _, orders, _ := newTableFixture()

	_, err := svc.CreateWaiterOrder(context.Background(), waiter(), "to-1", []WaiterItem{
		{ProductID: coffee.ID, Quantity: 1},
		{ProductID: bagel.ID, Quantity: 0},
	}, nil)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	assert.Empty(t, orders.Calls())
}

package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
	"go.uber.org/zap"
)

// TableAPI is the backend table surface
type TableAPI interface {
	List(ctx context.Context, query url.Values) ([]entity.Table, error)
	Available(ctx context.Context, branchID string) ([]entity.Table, error)
}

// TableOrderAPI is the backend table session surface
type TableOrderAPI interface {
	Create(ctx context.Context, input posapi.CreateTableOrderInput) (*entity.TableOrder, error)
	Get(ctx context.Context, id string) (*entity.TableOrder, error)
	List(ctx context.Context, openOnly bool) ([]entity.TableOrder, error)
	Close(ctx context.Context, id string) (*entity.TableOrder, error)
}

// WaiterItem is one line of a waiter order
type WaiterItem struct {
	ProductID string
	Quantity  int
}

// TableService seats tables and takes waiter orders. Table state is always
// taken from the backend response, never assumed.
type TableService struct {
	tables      TableAPI
	tableOrders TableOrderAPI
	orders      OrderAPI
	catalog     ProductCatalog
	logger      *zap.Logger
}

// NewTableService creates a new table service
func NewTableService(tables TableAPI, tableOrders TableOrderAPI, orders OrderAPI, catalog ProductCatalog, logger *zap.Logger) *TableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableService{tables: tables, tableOrders: tableOrders, orders: orders, catalog: catalog, logger: logger}
}

// ListTables returns every table of the business
func (s *TableService) ListTables(ctx context.Context) ([]entity.Table, error) {
	return s.tables.List(ctx, nil)
}

// Available returns the tables that can be seated in the user's branch
func (s *TableService) Available(ctx context.Context, user *entity.User) ([]entity.Table, error) {
	branchID := ""
	if id := user.BranchID(); id != nil {
		branchID = *id
	}
	return s.tables.Available(ctx, branchID)
}

// OpenTables returns the open table sessions
func (s *TableService) OpenTables(ctx context.Context) ([]entity.TableOrder, error) {
	return s.tableOrders.List(ctx, true)
}

// GetTableOrder returns a table session with its orders
func (s *TableService) GetTableOrder(ctx context.Context, id string) (*entity.TableOrder, error) {
	return s.tableOrders.Get(ctx, id)
}

// Seat opens a table session for the waiter
func (s *TableService) Seat(ctx context.Context, user *entity.User, tableID string, guests int) (*entity.TableOrder, error) {
	if guests < 1 {
		return nil, apperror.NewBadRequestError("At least one guest is required")
	}
	return s.tableOrders.Create(ctx, posapi.CreateTableOrderInput{
		TableID:  tableID,
		WaiterID: user.ID,
		Guests:   guests,
	})
}

// CreateWaiterOrder creates an order under an open table session and adds
// its items. Lines are checked before anything is sent; if an item is then
// rejected the order is cancelled so no half-filled order is left behind.
// The table session is re-read afterwards.
func (s *TableService) CreateWaiterOrder(ctx context.Context, user *entity.User, tableOrderID string, items []WaiterItem, notes *string) (*entity.TableOrder, error) {
	if len(items) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 {
			return nil, apperror.NewBadRequestError("Every item needs a product and a quantity of at least 1")
		}
	}
	businessID, ok := user.BusinessContext()
	if !ok {
		return nil, apperror.ErrMissingBusinessContext
	}

	tableOrder, err := s.tableOrders.Get(ctx, tableOrderID)
	if err != nil {
		return nil, err
	}
	if !tableOrder.IsOpen() {
		return nil, apperror.NewAppError(http.StatusConflict, "Table is already closed")
	}

	taxes, err := s.catalog.Taxes(ctx, businessID)
	if err != nil {
		return nil, err
	}
	taxIDs := make([]string, 0, len(taxes))
	for _, t := range taxes {
		taxIDs = append(taxIDs, t.ID)
	}

	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.ProductID
		if p, err := s.catalog.Product(ctx, businessID, it.ProductID); err == nil && p.HasBarcode() {
			keys[i] = *p.Barcode
		}
	}

	order, err := s.orders.Create(ctx, posapi.CreateOrderInput{
		BusinessID:   businessID,
		BranchID:     user.BranchID(),
		CashierID:    user.ID,
		TableOrderID: &tableOrder.ID,
		Notes:        notes,
	})
	if err != nil {
		return nil, err
	}

	for i, it := range items {
		if _, err := s.orders.AddItem(ctx, order.ID, posapi.AddItemInput{
			ProductKey: keys[i],
			Quantity:   it.Quantity,
			TaxIDs:     taxIDs,
		}); err != nil {
			s.logger.Warn("waiter order item rejected, cancelling order",
				zap.String("order_id", order.ID),
				zap.String("product_id", it.ProductID),
				zap.Error(err))
			if _, cerr := s.orders.Cancel(context.WithoutCancel(ctx), order.ID); cerr != nil {
				s.logger.Error("failed to cancel incomplete waiter order",
					zap.String("order_id", order.ID),
					zap.Error(cerr))
			}
			return nil, err
		}
	}

	return s.tableOrders.Get(ctx, tableOrderID)
}

// CloseTable ends a table session
func (s *TableService) CloseTable(ctx context.Context, tableOrderID string) (*entity.TableOrder, error) {
	return s.tableOrders.Close(ctx, tableOrderID)
}

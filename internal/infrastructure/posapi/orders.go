package posapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// OrdersAPI covers the backend order endpoints
type OrdersAPI struct {
	c *Client
}

// CreateOrderInput is the body of an order creation
type CreateOrderInput struct {
	BusinessID   string  `json:"businessId"`
	BranchID     *string `json:"branchId,omitempty"`
	CashierID    string  `json:"cashierId"`
	CustomerID   *string `json:"customerId,omitempty"`
	TableOrderID *string `json:"tableOrderId,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// AddItemInput adds a product to an order. ProductKey is the barcode when the
// product has one, the product id otherwise.
type AddItemInput struct {
	ProductKey string   `json:"productId"`
	Quantity   int      `json:"quantity"`
	TaxIDs     []string `json:"taxIds"`
}

// AdjustmentsInput patches discount and tip onto an order
type AdjustmentsInput struct {
	Discount      decimal.Decimal   `json:"discount"`
	DiscountType  enum.DiscountType `json:"discountType"`
	TipAmount     *decimal.Decimal  `json:"tipAmount,omitempty"`
	TipPercentage decimal.Decimal   `json:"tipPercentage"`
}

// ListOrdersFilter narrows an order listing
type ListOrdersFilter struct {
	Status       *enum.OrderStatus
	CashierID    string
	TableOrderID string
	From         string
	To           string
}

func (f ListOrdersFilter) query() url.Values {
	q := url.Values{}
	if f.Status != nil {
		q.Set("status", f.Status.String())
	}
	if f.CashierID != "" {
		q.Set("cashierId", f.CashierID)
	}
	if f.TableOrderID != "" {
		q.Set("tableOrderId", f.TableOrderID)
	}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	return q
}

func (o *OrdersAPI) orderPath(id string) string {
	return "/orders/" + escape(id)
}

func (o *OrdersAPI) send(ctx context.Context, req request) (*entity.Order, error) {
	var out entity.Order
	if err := o.c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create opens a new PENDING order
func (o *OrdersAPI) Create(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	return o.send(ctx, request{method: http.MethodPost, path: "/orders", body: input})
}

// Get fetches an order with its items
func (o *OrdersAPI) Get(ctx context.Context, id string) (*entity.Order, error) {
	return o.send(ctx, request{method: http.MethodGet, path: o.orderPath(id)})
}

// List returns orders matching the filter
func (o *OrdersAPI) List(ctx context.Context, filter ListOrdersFilter) ([]entity.Order, error) {
	var page Page[entity.Order]
	if err := o.c.do(ctx, request{method: http.MethodGet, path: "/orders", query: filter.query()}, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		return []entity.Order{}, nil
	}
	return page.Items, nil
}

// AddItem adds a line to the order and returns the updated order
func (o *OrdersAPI) AddItem(ctx context.Context, orderID string, input AddItemInput) (*entity.Order, error) {
	return o.send(ctx, request{method: http.MethodPost, path: o.orderPath(orderID) + "/items", body: input})
}

// UpdateItem changes the quantity of an order line
func (o *OrdersAPI) UpdateItem(ctx context.Context, orderID, itemID string, quantity int) (*entity.Order, error) {
	return o.send(ctx, request{
		method: http.MethodPatch,
		path:   o.orderPath(orderID) + "/items/" + escape(itemID),
		body:   map[string]int{"quantity": quantity},
	})
}

// RemoveItem deletes an order line
func (o *OrdersAPI) RemoveItem(ctx context.Context, orderID, itemID string) (*entity.Order, error) {
	return o.send(ctx, request{method: http.MethodDelete, path: o.orderPath(orderID) + "/items/" + escape(itemID)})
}

// UpdateCustomer sets or clears the customer of an order
func (o *OrdersAPI) UpdateCustomer(ctx context.Context, orderID string, customerID *string) (*entity.Order, error) {
	return o.send(ctx, request{
		method: http.MethodPatch,
		path:   o.orderPath(orderID) + "/customer",
		body:   map[string]*string{"customerId": customerID},
	})
}

// UpdateAdjustments patches discount and tip onto an order
func (o *OrdersAPI) UpdateAdjustments(ctx context.Context, orderID string, input AdjustmentsInput) (*entity.Order, error) {
	return o.send(ctx, request{method: http.MethodPatch, path: o.orderPath(orderID) + "/adjustments", body: input})
}

// Complete marks the order completed with the given completion type
func (o *OrdersAPI) Complete(ctx context.Context, orderID string, completion enum.CompletionType) (*entity.Order, error) {
	return o.send(ctx, request{
		method: http.MethodPost,
		path:   o.orderPath(orderID) + "/complete",
		body:   map[string]string{"completionType": string(completion)},
	})
}

// Cancel cancels an order
func (o *OrdersAPI) Cancel(ctx context.Context, orderID string) (*entity.Order, error) {
	return o.send(ctx, request{method: http.MethodPost, path: o.orderPath(orderID) + "/cancel"})
}

// ProcessPayment records a payment. The idempotency key makes retries of the
// same attempt safe.
func (o *OrdersAPI) ProcessPayment(ctx context.Context, payment entity.Payment, idempotencyKey string) (*entity.Payment, error) {
	req := request{
		method: http.MethodPost,
		path:   o.orderPath(payment.OrderID) + "/payments",
		body:   payment,
	}
	if idempotencyKey != "" {
		req.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}

	var out entity.Payment
	if err := o.c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.OrderID == "" {
		out.OrderID = payment.OrderID
	}
	return &out, nil
}

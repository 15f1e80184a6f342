package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

// stubOrders is an in-memory backend for orders. Prices come from products;
// tax is the sum of the attached rates applied to the subtotal.
type stubOrders struct {
	mu       sync.Mutex
	products map[string]entity.Product
	taxRate  decimal.Decimal
	orders   map[string]*entity.Order
	seq      int

	calls []string

	// Hooks to inject failures or response shapes
	failCreate      error
	failAddItem     error
	failAddItemKey  string
	failComplete    error
	failPayment     error
	failCustomer    error
	failAdjust      error
	omitItems       bool
	payments        []entity.Payment
	paymentKeys     []string
	customerEchoNil bool
}

func newStubOrders(products ...entity.Product) *stubOrders {
	s := &stubOrders{
		products: make(map[string]entity.Product),
		orders:   make(map[string]*entity.Order),
		taxRate:  decimal.Zero,
	}
	for _, p := range products {
		s.products[p.ID] = p
		if p.HasBarcode() {
			s.products[*p.Barcode] = p
		}
	}
	return s
}

func (s *stubOrders) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *stubOrders) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubOrders) recompute(o *entity.Order) {
	sub := decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		it.Subtotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		sub = sub.Add(it.Subtotal)
	}
	o.Subtotal = sub
	o.TaxAmount = sub.Mul(s.taxRate)
	discount := o.Discount
	if o.DiscountType == enum.DiscountTypePercentage {
		discount = sub.Mul(o.Discount).Div(decimal.NewFromInt(100))
	}
	o.FinalAmount = sub.Add(o.TaxAmount).Sub(discount).Add(o.TipAmount)
}

func (s *stubOrders) respond(o *entity.Order) *entity.Order {
	cp := o.Clone()
	if s.omitItems {
		cp.Items = nil
	}
	return cp
}

func (s *stubOrders) Create(_ context.Context, input posapi.CreateOrderInput) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create")
	if s.failCreate != nil {
		return nil, s.failCreate
	}
	s.seq++
	o := &entity.Order{
		ID:         fmt.Sprintf("o%d", s.seq),
		BusinessID: input.BusinessID,
		CashierID:  input.CashierID,
		CustomerID: input.CustomerID,
		Items:      []entity.OrderItem{},
		Status:     enum.OrderStatusPending,
	}
	s.orders[o.ID] = o
	return o.Clone(), nil
}

func (s *stubOrders) get(id string) (*entity.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, apperror.NewUpstreamError(404, "Order not found")
	}
	return o, nil
}

func (s *stubOrders) Get(_ context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get")
	o, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return o.Clone(), nil
}

func (s *stubOrders) AddItem(_ context.Context, orderID string, input posapi.AddItemInput) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("addItem:" + input.ProductKey)
	if s.failAddItem != nil && (s.failAddItemKey == "" || s.failAddItemKey == input.ProductKey) {
		return nil, s.failAddItem
	}
	o, err := s.get(orderID)
	if err != nil {
		return nil, err
	}
	p, ok := s.products[input.ProductKey]
	if !ok {
		return nil, apperror.NewUpstreamError(404, "Product not found")
	}
	if it, found := o.FindItemByProduct(p.ID); found {
		it.Quantity += input.Quantity
	} else {
		s.seq++
		o.Items = append(o.Items, entity.OrderItem{
			ID:        fmt.Sprintf("i%d", s.seq),
			OrderID:   o.ID,
			ProductID: p.ID,
			Quantity:  input.Quantity,
			UnitPrice: p.Price,
		})
	}
	s.recompute(o)
	return s.respond(o), nil
}

func (s *stubOrders) UpdateItem(_ context.Context, orderID, itemID string, quantity int) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("updateItem:" + itemID)
	o, err := s.get(orderID)
	if err != nil {
		return nil, err
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].Quantity = quantity
		}
	}
	s.recompute(o)
	return s.respond(o), nil
}

func (s *stubOrders) RemoveItem(_ context.Context, orderID, itemID string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("removeItem:" + itemID)
	o, err := s.get(orderID)
	if err != nil {
		return nil, err
	}
	kept := o.Items[:0]
	for _, it := range o.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	o.Items = kept
	s.recompute(o)
	return s.respond(o), nil
}

func (s *stubOrders) UpdateCustomer(_ context.Context, orderID string, customerID *string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("updateCustomer")
	if s.failCustomer != nil {
		return nil, s.failCustomer
	}
	o, err := s.get(orderID)
	if err != nil {
		return nil, err
	}
	o.CustomerID = customerID
	o.Customer = nil
	if customerID != nil && !s.customerEchoNil {
		o.Customer = &entity.Customer{ID: *customerID, Name: "Backend " + *customerID}
	}
	cp := o.Clone()
	cp.Items = nil
	return cp, nil
}

func (s *stubOrders) UpdateAdjustments(_ context.Context, orderID string, input posapi.AdjustmentsInput) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("adjust")
	if s.failAdjust != nil {
		return nil, s.failAdjust
	}
	o, err := s.get(orderID)
	if err != nil {
		return nil, err
	}
	o.Discount = input.Discount
	o.DiscountType = input.DiscountType
	o.TipPercentage = input.TipPercentage
	s.recompute(o)
	if input.TipAmount != nil {
		o.TipAmount = *input.TipAmount
	} else {
		o.TipAmount = o.Subtotal.Mul(input.TipPercentage).Div(decimal.NewFromInt(100))
	}
	s.recompute(o)
	return s.respond(o), nil
}

func (s *stubOrders) Complete(_ context.Context, orderID string, completion enum.CompletionType) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("complete:" + string(completion))
	if s.failComplete != nil {
		return nil, s.failComplete
	}
	o, err := s.get(orderID)
	if err != nil {
		return nil, err
	}
	o.Status = enum.OrderStatusCompleted
	o.CompletionType = completion
	return s.respond(o), nil
}

func (s *stubOrders) Cancel(_ context.Context, orderID string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("cancel")
	o, err := s.get(orderID)
	if err != nil {
		return nil, err
	}
	o.Status = enum.OrderStatusCancelled
	return o.Clone(), nil
}

func (s *stubOrders) ProcessPayment(_ context.Context, payment entity.Payment, key string) (*entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("payment")
	s.paymentKeys = append(s.paymentKeys, key)
	if s.failPayment != nil {
		return nil, s.failPayment
	}
	if o, ok := s.orders[payment.OrderID]; ok {
		o.Status = enum.OrderStatusPaid
	}
	payment.ID = fmt.Sprintf("pay%d", len(s.payments)+1)
	s.payments = append(s.payments, payment)
	return &payment, nil
}

// stubCatalog serves products, taxes and payment methods from memory
type stubCatalog struct {
	products map[string]entity.Product
	taxes    []entity.Tax
	methods  []entity.PaymentMethod
	lookups  int
}

func newStubCatalog(products ...entity.Product) *stubCatalog {
	c := &stubCatalog{products: make(map[string]entity.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *stubCatalog) Product(_ context.Context, _, id string) (*entity.Product, error) {
	c.lookups++
	p, ok := c.products[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}
	return &p, nil
}

func (c *stubCatalog) ProductByBarcode(_ context.Context, _, barcode string) (*entity.Product, error) {
	for _, p := range c.products {
		if p.HasBarcode() && *p.Barcode == barcode {
			p := p
			return &p, nil
		}
	}
	return nil, apperror.NewNotFoundError("Product")
}

func (c *stubCatalog) Taxes(context.Context, string) ([]entity.Tax, error) {
	return c.taxes, nil
}

func (c *stubCatalog) PaymentMethod(_ context.Context, _, id string) (*entity.PaymentMethod, error) {
	for i := range c.methods {
		if c.methods[i].ID == id {
			return &c.methods[i], nil
		}
	}
	return nil, apperror.NewNotFoundError("Payment method")
}

type stubCustomers map[string]entity.Customer

func (s stubCustomers) Get(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := s[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return &c, nil
}

type stubReceipts struct {
	issued []*entity.Sale
}

func (s *stubReceipts) Issue(_ context.Context, sale *entity.Sale, payment *entity.Payment, _ *entity.User) *entity.Receipt {
	s.issued = append(s.issued, sale)
	return &entity.Receipt{OrderID: payment.OrderID, Total: sale.Total}
}

var (
	coffee = entity.Product{ID: "p-coffee", Name: "Coffee", Price: dec("2.50"), Barcode: strPtr("7501")}
	bagel  = entity.Product{ID: "p-bagel", Name: "Bagel", Price: dec("4.00")}

	cash = entity.PaymentMethod{ID: "m-cash", Name: "Cash", Code: entity.PaymentMethodCash}
	card = entity.PaymentMethod{ID: "m-card", Name: "Card", Code: "CARD"}

	vat = entity.Tax{ID: "t-vat", Name: "VAT", Rate: dec("0.1")}
)

func cashier() *entity.User {
	return &entity.User{ID: "u-1", Name: "Ann", Role: "cashier", BusinessID: strPtr("b-1")}
}

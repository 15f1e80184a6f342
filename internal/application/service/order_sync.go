package service

import (
	"context"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
	"go.uber.org/zap"
)

// OrderAPI is the backend order surface the console drives
type OrderAPI interface {
	Create(ctx context.Context, input posapi.CreateOrderInput) (*entity.Order, error)
	Get(ctx context.Context, id string) (*entity.Order, error)
	AddItem(ctx context.Context, orderID string, input posapi.AddItemInput) (*entity.Order, error)
	UpdateItem(ctx context.Context, orderID, itemID string, quantity int) (*entity.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID string) (*entity.Order, error)
	UpdateCustomer(ctx context.Context, orderID string, customerID *string) (*entity.Order, error)
	UpdateAdjustments(ctx context.Context, orderID string, input posapi.AdjustmentsInput) (*entity.Order, error)
	Complete(ctx context.Context, orderID string, completion enum.CompletionType) (*entity.Order, error)
	Cancel(ctx context.Context, orderID string) (*entity.Order, error)
	ProcessPayment(ctx context.Context, payment entity.Payment, idempotencyKey string) (*entity.Payment, error)
}

// ProductCatalog resolves products and taxes of a business
type ProductCatalog interface {
	Product(ctx context.Context, businessID, productID string) (*entity.Product, error)
	Taxes(ctx context.Context, businessID string) ([]entity.Tax, error)
}

// OrderSync keeps a sale and its backend order in step. Every operation takes
// a sale and returns a new one; the input is never modified. On error the
// returned sale is nil, except when an order was created before the failure:
// then it is the input plus that order, and callers should keep it.
type OrderSync struct {
	orders  OrderAPI
	catalog ProductCatalog
	logger  *zap.Logger
}

// NewOrderSync creates the order sync adapter
func NewOrderSync(orders OrderAPI, catalog ProductCatalog, logger *zap.Logger) *OrderSync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderSync{orders: orders, catalog: catalog, logger: logger}
}

// EnsureOrder creates the backend order of the sale if it has none yet
func (s *OrderSync) EnsureOrder(ctx context.Context, user *entity.User, sale *entity.Sale) (*entity.Sale, error) {
	if sale.CurrentOrder != nil {
		return sale.Clone(), nil
	}

	businessID, ok := user.BusinessContext()
	if !ok {
		return nil, apperror.ErrMissingBusinessContext
	}

	input := posapi.CreateOrderInput{
		BusinessID: businessID,
		BranchID:   user.BranchID(),
		CashierID:  user.ID,
	}
	if sale.Customer != nil {
		id := sale.Customer.ID
		input.CustomerID = &id
	}

	order, err := s.orders.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	out := sale.Clone()
	out.CurrentOrder = order

	// Carry adjustments chosen before the first item onto the new order. The
	// order exists from here on, so failures still return the sale holding it.
	if hasAdjustments(sale) {
		adjusted, err := s.orders.UpdateAdjustments(ctx, order.ID, adjustmentsOf(sale))
		if err != nil {
			return CalculateTotals(out, nil), err
		}
		out.CurrentOrder = withItems(adjusted, order)
	}

	return CalculateTotals(out, nil), nil
}

// AddItem adds one unit of the product to the order, creating the order first
// when needed.
func (s *OrderSync) AddItem(ctx context.Context, user *entity.User, sale *entity.Sale, product entity.Product) (*entity.Sale, error) {
	if err := checkEditable(sale); err != nil {
		return nil, err
	}

	businessID, ok := user.BusinessContext()
	if !ok {
		return nil, apperror.ErrMissingBusinessContext
	}

	taxes, err := s.catalog.Taxes(ctx, businessID)
	if err != nil {
		return nil, err
	}

	withOrder, err := s.EnsureOrder(ctx, user, sale)
	if err != nil {
		return withOrder, err
	}
	orderID := withOrder.CurrentOrder.ID

	// A failure after the order was created keeps it on the sale so the next
	// attempt reuses it instead of opening another one.
	var created *entity.Sale
	if sale.CurrentOrder == nil {
		created = withOrder
	}

	key := product.ID
	if product.HasBarcode() {
		key = *product.Barcode
	}
	taxIDs := make([]string, 0, len(taxes))
	for _, t := range taxes {
		taxIDs = append(taxIDs, t.ID)
	}

	updated, err := s.orders.AddItem(ctx, orderID, posapi.AddItemInput{
		ProductKey: key,
		Quantity:   1,
		TaxIDs:     taxIDs,
	})
	if err != nil {
		return created, err
	}
	if updated, err = s.withFullOrder(ctx, orderID, updated); err != nil {
		return created, err
	}

	out, err := s.reconcile(ctx, businessID, withOrder, updated, product)
	if err != nil {
		return created, err
	}
	return out, nil
}

// UpdateQuantity sets the quantity of the order line holding the product.
// A quantity of zero or less removes the line.
func (s *OrderSync) UpdateQuantity(ctx context.Context, user *entity.User, sale *entity.Sale, productID string, quantity int) (*entity.Sale, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, user, sale, productID)
	}

	order, item, err := s.lineOf(sale, productID)
	if err != nil {
		return nil, err
	}
	businessID, _ := user.BusinessContext()

	updated, err := s.orders.UpdateItem(ctx, order.ID, item.ID, quantity)
	if err != nil {
		return nil, err
	}
	if updated, err = s.withFullOrder(ctx, order.ID, updated); err != nil {
		return nil, err
	}
	return s.reconcile(ctx, businessID, sale, updated)
}

// RemoveItem deletes the order line holding the product
func (s *OrderSync) RemoveItem(ctx context.Context, user *entity.User, sale *entity.Sale, productID string) (*entity.Sale, error) {
	order, item, err := s.lineOf(sale, productID)
	if err != nil {
		return nil, err
	}
	businessID, _ := user.BusinessContext()

	updated, err := s.orders.RemoveItem(ctx, order.ID, item.ID)
	if err != nil {
		return nil, err
	}
	if updated, err = s.withFullOrder(ctx, order.ID, updated); err != nil {
		return nil, err
	}
	return s.reconcile(ctx, businessID, sale, updated)
}

// SelectCustomer sets the sale's customer and, when an order exists, the
// order's. A nil customer clears the selection.
func (s *OrderSync) SelectCustomer(ctx context.Context, user *entity.User, sale *entity.Sale, customer *entity.Customer) (*entity.Sale, error) {
	if err := checkEditable(sale); err != nil {
		return nil, err
	}

	out := sale.Clone()
	if customer != nil {
		c := *customer
		out.Customer = &c
	} else {
		out.Customer = nil
	}

	if out.CurrentOrder == nil {
		return CalculateTotals(out, nil), nil
	}

	var customerID *string
	if customer != nil {
		id := customer.ID
		customerID = &id
	}

	updated, err := s.orders.UpdateCustomer(ctx, out.CurrentOrder.ID, customerID)
	if err != nil {
		return nil, err
	}
	updated = withItems(updated, out.CurrentOrder)

	businessID, _ := user.BusinessContext()
	result, err := s.reconcile(ctx, businessID, out, updated)
	if err != nil {
		return nil, err
	}
	if updated.Customer == nil {
		result.Customer = out.Customer
	}
	return result, nil
}

// UpdateAdjustments pushes the sale's discount and tip onto its order so the
// backend totals reflect them. Without an order only local totals change.
func (s *OrderSync) UpdateAdjustments(ctx context.Context, user *entity.User, sale *entity.Sale) (*entity.Sale, error) {
	if err := checkEditable(sale); err != nil {
		return nil, err
	}
	if sale.CurrentOrder == nil {
		return CalculateTotals(sale, nil), nil
	}

	updated, err := s.orders.UpdateAdjustments(ctx, sale.CurrentOrder.ID, adjustmentsOf(sale))
	if err != nil {
		return nil, err
	}
	updated = withItems(updated, sale.CurrentOrder)

	businessID, _ := user.BusinessContext()
	return s.reconcile(ctx, businessID, sale, updated)
}

// FromOrder builds a fresh sale mirroring an existing backend order
func (s *OrderSync) FromOrder(ctx context.Context, businessID string, order *entity.Order) (*entity.Sale, error) {
	seed := entity.NewSale()
	seed.Discount = order.Discount
	seed.DiscountType = order.DiscountType
	seed.TipPercentage = order.TipPercentage
	if order.TipPercentage.IsZero() && !order.TipAmount.IsZero() {
		tip := order.TipAmount
		seed.ExplicitTip = &tip
	}
	return s.reconcile(ctx, businessID, seed, order)
}

// Reconcile replaces the sale's order by a newer backend copy
func (s *OrderSync) Reconcile(ctx context.Context, businessID string, sale *entity.Sale, order *entity.Order) (*entity.Sale, error) {
	return s.reconcile(ctx, businessID, sale, withItems(order, sale.CurrentOrder))
}

func (s *OrderSync) lineOf(sale *entity.Sale, productID string) (*entity.Order, *entity.OrderItem, error) {
	if sale.CurrentOrder == nil {
		return nil, nil, apperror.ErrOrderRequired
	}
	if err := checkEditable(sale); err != nil {
		return nil, nil, err
	}
	item, ok := sale.CurrentOrder.FindItemByProduct(productID)
	if !ok {
		return nil, nil, apperror.ErrItemNotFound
	}
	return sale.CurrentOrder, item, nil
}

// withFullOrder refetches the order when a mutation response came back
// without its items.
func (s *OrderSync) withFullOrder(ctx context.Context, orderID string, order *entity.Order) (*entity.Order, error) {
	if order != nil && order.Items != nil {
		return order, nil
	}
	return s.orders.Get(ctx, orderID)
}

// reconcile rebuilds the cart from the order's lines. Products come from the
// sale's cart, the given hints, or the catalog, in that order. Lines whose
// product cannot be resolved are kept and flagged.
func (s *OrderSync) reconcile(ctx context.Context, businessID string, sale *entity.Sale, order *entity.Order, hints ...entity.Product) (*entity.Sale, error) {
	known := make(map[string]entity.Product, len(sale.Items)+len(hints))
	for _, it := range sale.Items {
		if !it.Unresolved {
			known[it.Product.ID] = it.Product
		}
	}
	for _, p := range hints {
		known[p.ID] = p
	}

	out := sale.Clone()
	out.CurrentOrder = order.Clone()
	out.Items = make([]entity.CartItem, 0, len(order.Items))

	for _, line := range order.Items {
		item := entity.CartItem{Quantity: line.Quantity, Subtotal: line.Subtotal}

		if p, ok := known[line.ProductID]; ok {
			item.Product = p
		} else if p := s.lookup(ctx, businessID, line.ProductID); p != nil {
			item.Product = *p
		} else {
			s.logger.Warn("order line references an unknown product",
				zap.String("order_id", order.ID),
				zap.String("product_id", line.ProductID))
			item.Product = entity.Product{ID: line.ProductID, Name: line.ProductID, Price: line.UnitPrice}
			item.Unresolved = true
		}

		if item.Subtotal.IsZero() {
			price := line.UnitPrice
			if price.IsZero() {
				price = item.Product.Price
			}
			item.Subtotal = LineSubtotal(price, line.Quantity)
		}
		out.Items = append(out.Items, item)
	}

	if order.Customer != nil {
		c := *order.Customer
		out.Customer = &c
	}

	return CalculateTotals(out, nil), nil
}

func (s *OrderSync) lookup(ctx context.Context, businessID, productID string) *entity.Product {
	if s.catalog == nil || businessID == "" {
		return nil
	}
	p, err := s.catalog.Product(ctx, businessID, productID)
	if err != nil {
		s.logger.Debug("product lookup failed", zap.String("product_id", productID), zap.Error(err))
		return nil
	}
	return p
}

func checkEditable(sale *entity.Sale) error {
	if sale.CurrentOrder != nil && !sale.CurrentOrder.Status.Editable() {
		return apperror.ErrOrderReadOnly
	}
	return nil
}

func hasAdjustments(sale *entity.Sale) bool {
	return !sale.Discount.IsZero() || !sale.TipPercentage.IsZero() || sale.ExplicitTip != nil
}

func adjustmentsOf(sale *entity.Sale) posapi.AdjustmentsInput {
	return posapi.AdjustmentsInput{
		Discount:      sale.Discount,
		DiscountType:  sale.DiscountType,
		TipAmount:     sale.ExplicitTip,
		TipPercentage: sale.TipPercentage,
	}
}

// withItems fills in the lines of a response that came back without them
func withItems(order, previous *entity.Order) *entity.Order {
	if order == nil || order.Items != nil || previous == nil {
		return order
	}
	cp := *order
	cp.Items = previous.Clone().Items
	return &cp
}

package service

import (
	"context"
	"sync"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleCatalog is the catalog surface used by the sale workflow
type SaleCatalog interface {
	ProductCatalog
	ProductByBarcode(ctx context.Context, businessID, barcode string) (*entity.Product, error)
	PaymentMethod(ctx context.Context, businessID, methodID string) (*entity.PaymentMethod, error)
}

// CustomerFinder fetches a customer by id
type CustomerFinder interface {
	Get(ctx context.Context, id string) (*entity.Customer, error)
}

// ReceiptIssuer produces the receipt of a paid sale
type ReceiptIssuer interface {
	Issue(ctx context.Context, sale *entity.Sale, payment *entity.Payment, cashier *entity.User) *entity.Receipt
}

// Actor identifies the console session and user performing an operation
type Actor struct {
	SessionID string
	User      *entity.User
}

// SaleConfig holds workflow defaults
type SaleConfig struct {
	DefaultCompletion enum.CompletionType
}

// PaymentInput is the cashier's payment request
type PaymentInput struct {
	AmountTendered *decimal.Decimal
	CompletionType enum.CompletionType
}

// PaymentResult is the outcome of a successful payment
type PaymentResult struct {
	Payment *entity.Payment `json:"payment"`
	Order   *entity.Order   `json:"order"`
	Change  decimal.Decimal `json:"change"`
	Receipt *entity.Receipt `json:"receipt,omitempty"`
	Sale    *entity.Sale    `json:"sale"`
}

type saleSession struct {
	mu   sync.Mutex
	sale *entity.Sale
}

// SaleService runs the cashier's sale workflow. Each console session owns one
// sale; operations on a session run one at a time.
type SaleService struct {
	sync      *OrderSync
	orders    OrderAPI
	catalog   SaleCatalog
	customers CustomerFinder
	receipts  ReceiptIssuer
	cfg       SaleConfig
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*saleSession
}

// NewSaleService creates a new sale service
func NewSaleService(
	orders OrderAPI,
	catalog SaleCatalog,
	customers CustomerFinder,
	receipts ReceiptIssuer,
	cfg SaleConfig,
	logger *zap.Logger,
) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultCompletion == "" {
		cfg.DefaultCompletion = enum.CompletionTypePickup
	}
	return &SaleService{
		sync:      NewOrderSync(orders, catalog, logger),
		orders:    orders,
		catalog:   catalog,
		customers: customers,
		receipts:  receipts,
		cfg:       cfg,
		logger:    logger,
		sessions:  make(map[string]*saleSession),
	}
}

func newSale() *entity.Sale {
	s := entity.NewSale()
	s.PaymentKey = utils.GenerateIdempotencyKey()
	return s
}

func (s *SaleService) session(id string) *saleSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &saleSession{sale: newSale()}
		s.sessions[id] = sess
	}
	return sess
}

// mutate runs fn under the session lock and commits the sale it returns.
// A sale returned together with an error is committed too; it carries backend
// state, such as a newly created order, that must not be lost.
func (s *SaleService) mutate(actor Actor, fn func(sale *entity.Sale) (*entity.Sale, error)) (*entity.Sale, error) {
	sess := s.session(actor.SessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, err := fn(sess.sale.Clone())
	if next != nil {
		sess.sale = next
	}
	if err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// Forget drops the sale of a session, used at sign-out
func (s *SaleService) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// GetSale returns the session's current sale
func (s *SaleService) GetSale(ctx context.Context, actor Actor) *entity.Sale {
	sess := s.session(actor.SessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.sale.Clone()
}

func businessOf(actor Actor) (string, error) {
	if actor.User == nil {
		return "", apperror.ErrUnauthorized
	}
	id, ok := actor.User.BusinessContext()
	if !ok {
		return "", apperror.ErrMissingBusinessContext
	}
	return id, nil
}

// AddToCart adds one unit of a product to the sale
func (s *SaleService) AddToCart(ctx context.Context, actor Actor, productID string) (*entity.Sale, error) {
	businessID, err := businessOf(actor)
	if err != nil {
		return nil, err
	}
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		if err := checkEditable(sale); err != nil {
			return nil, err
		}
		product, err := s.catalog.Product(ctx, businessID, productID)
		if err != nil {
			return nil, err
		}
		return s.sync.AddItem(ctx, actor.User, sale, *product)
	})
}

// AddToCartByBarcode adds one unit of the product carrying the barcode
func (s *SaleService) AddToCartByBarcode(ctx context.Context, actor Actor, barcode string) (*entity.Sale, error) {
	businessID, err := businessOf(actor)
	if err != nil {
		return nil, err
	}
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		if err := checkEditable(sale); err != nil {
			return nil, err
		}
		product, err := s.catalog.ProductByBarcode(ctx, businessID, barcode)
		if err != nil {
			return nil, err
		}
		return s.sync.AddItem(ctx, actor.User, sale, *product)
	})
}

// UpdateQuantity sets the quantity of a cart line; zero or less removes it
func (s *SaleService) UpdateQuantity(ctx context.Context, actor Actor, productID string, quantity int) (*entity.Sale, error) {
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		return s.sync.UpdateQuantity(ctx, actor.User, sale, productID, quantity)
	})
}

// RemoveFromCart removes a cart line
func (s *SaleService) RemoveFromCart(ctx context.Context, actor Actor, productID string) (*entity.Sale, error) {
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		return s.sync.RemoveItem(ctx, actor.User, sale, productID)
	})
}

// SelectCustomer sets the sale's customer; a nil id clears it
func (s *SaleService) SelectCustomer(ctx context.Context, actor Actor, customerID *string) (*entity.Sale, error) {
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		if err := checkEditable(sale); err != nil {
			return nil, err
		}
		var customer *entity.Customer
		if customerID != nil && *customerID != "" {
			c, err := s.customers.Get(ctx, *customerID)
			if err != nil {
				return nil, err
			}
			customer = c
		}
		return s.sync.SelectCustomer(ctx, actor.User, sale, customer)
	})
}

// SelectPaymentMethod sets the tender used at checkout
func (s *SaleService) SelectPaymentMethod(ctx context.Context, actor Actor, methodID string) (*entity.Sale, error) {
	businessID, err := businessOf(actor)
	if err != nil {
		return nil, err
	}
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		if sale.CurrentOrder != nil && sale.CurrentOrder.Status.Terminal() {
			return nil, apperror.ErrOrderReadOnly
		}
		method, err := s.catalog.PaymentMethod(ctx, businessID, methodID)
		if err != nil {
			return nil, err
		}
		sale.PaymentMethod = method
		return sale, nil
	})
}

// SetDiscount sets the sale discount, a percentage or a fixed amount
func (s *SaleService) SetDiscount(ctx context.Context, actor Actor, amount decimal.Decimal, kind enum.DiscountType) (*entity.Sale, error) {
	if amount.IsNegative() {
		return nil, apperror.NewBadRequestError("Discount cannot be negative")
	}
	if kind == enum.DiscountTypePercentage && amount.GreaterThan(hundred) {
		return nil, apperror.NewBadRequestError("Discount percentage cannot exceed 100")
	}
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		sale.Discount = amount
		sale.DiscountType = kind
		return s.sync.UpdateAdjustments(ctx, actor.User, sale)
	})
}

// SelectTipPercentage picks one of the offered tip percentages. Any explicit
// tip amount is discarded.
func (s *SaleService) SelectTipPercentage(ctx context.Context, actor Actor, pct decimal.Decimal) (*entity.Sale, error) {
	if !IsTipOption(pct) {
		return nil, apperror.NewBadRequestError("Unsupported tip percentage")
	}
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		sale.TipPercentage = pct
		sale.ExplicitTip = nil
		return s.sync.UpdateAdjustments(ctx, actor.User, sale)
	})
}

// SetTipAmount sets an explicit tip amount; nil falls back to the percentage
func (s *SaleService) SetTipAmount(ctx context.Context, actor Actor, amount *decimal.Decimal) (*entity.Sale, error) {
	if amount != nil && amount.IsNegative() {
		return nil, apperror.NewBadRequestError("Tip cannot be negative")
	}
	return s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		if amount != nil {
			tip := *amount
			sale.ExplicitTip = &tip
		} else {
			sale.ExplicitTip = nil
		}
		return s.sync.UpdateAdjustments(ctx, actor.User, sale)
	})
}

func validatePayment(sale *entity.Sale, input PaymentInput) error {
	if sale.IsEmpty() {
		return apperror.ErrEmptyCart
	}
	if sale.PaymentMethod == nil {
		return apperror.ErrPaymentMethodRequired
	}
	if sale.CurrentOrder == nil {
		return apperror.ErrOrderRequired
	}
	status := sale.CurrentOrder.Status
	resuming := sale.AwaitingPayment && status == enum.OrderStatusCompleted
	if !status.Editable() && !resuming {
		return apperror.ErrOrderReadOnly
	}
	if sale.PaymentMethod.IsCash() {
		if input.AmountTendered == nil || input.AmountTendered.LessThan(sale.Total) {
			return apperror.ErrInsufficientTender
		}
	}
	return nil
}

// ProcessPayment completes the sale's order and records the payment. All
// preconditions are checked before the backend is called. When completion
// succeeds but the payment fails the sale stays awaiting payment, and a retry
// re-sends only the payment under the same idempotency key.
func (s *SaleService) ProcessPayment(ctx context.Context, actor Actor, input PaymentInput) (*PaymentResult, error) {
	if actor.User == nil {
		return nil, apperror.ErrUnauthorized
	}
	sess := s.session(actor.SessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sale := sess.sale.Clone()
	if err := validatePayment(sale, input); err != nil {
		return nil, err
	}
	businessID, _ := actor.User.BusinessContext()

	if !sale.AwaitingPayment {
		completion := input.CompletionType
		if completion == "" {
			completion = s.cfg.DefaultCompletion
		}
		completed, err := s.orders.Complete(ctx, sale.CurrentOrder.ID, completion)
		if err != nil {
			return nil, err
		}

		next, err := s.sync.Reconcile(ctx, businessID, sale, completed)
		if err != nil {
			return nil, err
		}
		next.AwaitingPayment = true
		if next.PaymentKey == "" {
			next.PaymentKey = utils.GenerateIdempotencyKey()
		}
		sess.sale = next
		sale = next.Clone()

		// The backend may have settled on a different total
		if sale.PaymentMethod.IsCash() && input.AmountTendered.LessThan(sale.Total) {
			return nil, apperror.ErrInsufficientTender
		}
	}

	payment := entity.Payment{
		OrderID:              sale.CurrentOrder.ID,
		PaymentMethodID:      sale.PaymentMethod.ID,
		Amount:               sale.Total,
		TransactionReference: utils.GenerateTransactionReference("TXN"),
		Status:               entity.PaymentStatusCompleted,
	}
	if sale.PaymentMethod.IsCash() {
		tendered := *input.AmountTendered
		payment.AmountTendered = &tendered
	}

	recorded, err := s.orders.ProcessPayment(ctx, payment, sale.PaymentKey)
	if err != nil {
		s.logger.Warn("payment failed after order completion",
			zap.String("order_id", sale.CurrentOrder.ID),
			zap.Error(err))
		return nil, err
	}
	if recorded.AmountTendered == nil {
		recorded.AmountTendered = payment.AmountTendered
	}
	if recorded.TransactionReference == "" {
		recorded.TransactionReference = payment.TransactionReference
	}

	result := &PaymentResult{
		Payment: recorded,
		Order:   sale.CurrentOrder.Clone(),
	}
	if payment.AmountTendered != nil {
		result.Change = ChangeDue(*payment.AmountTendered, sale.Total)
	}
	if s.receipts != nil {
		result.Receipt = s.receipts.Issue(ctx, sale, recorded, actor.User)
	}

	sess.sale = newSale()
	result.Sale = sess.sale.Clone()

	s.logger.Info("sale paid",
		zap.String("order_id", result.Order.ID),
		zap.String("amount", sale.Total.StringFixed(2)),
		zap.String("payment_method", sale.PaymentMethod.Code))
	return result, nil
}

// ClearSale discards the session's sale. The backend order is left as is.
func (s *SaleService) ClearSale(ctx context.Context, actor Actor) *entity.Sale {
	sale, _ := s.mutate(actor, func(*entity.Sale) (*entity.Sale, error) {
		return newSale(), nil
	})
	return sale
}

// LoadExistingOrder replaces the sale by one mirroring an order of the acting
// cashier. Orders of other cashiers are refused and the sale is kept.
func (s *SaleService) LoadExistingOrder(ctx context.Context, actor Actor, orderID string) (*entity.Sale, error) {
	businessID, err := businessOf(actor)
	if err != nil {
		return nil, err
	}
	return s.mutate(actor, func(*entity.Sale) (*entity.Sale, error) {
		order, err := s.orders.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.CashierID != actor.User.ID {
			return nil, apperror.ErrAccessDenied
		}

		sale, err := s.sync.FromOrder(ctx, businessID, order)
		if err != nil {
			return nil, err
		}
		sale.PaymentKey = utils.GenerateIdempotencyKey()
		sale.AwaitingPayment = order.Status == enum.OrderStatusCompleted
		return sale, nil
	})
}

// CancelOrder cancels the sale's order and starts a new sale
func (s *SaleService) CancelOrder(ctx context.Context, actor Actor) (*entity.Order, error) {
	var cancelled *entity.Order
	_, err := s.mutate(actor, func(sale *entity.Sale) (*entity.Sale, error) {
		if sale.CurrentOrder == nil {
			return nil, apperror.ErrOrderRequired
		}
		if err := checkEditable(sale); err != nil {
			return nil, err
		}
		order, err := s.orders.Cancel(ctx, sale.CurrentOrder.ID)
		if err != nil {
			return nil, err
		}
		cancelled = order
		return newSale(), nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

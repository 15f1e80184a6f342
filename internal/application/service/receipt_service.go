package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptConfig holds the store details printed on receipts
type ReceiptConfig struct {
	StoreName string
	Address   string
	Phone     string
	TaxID     string
	Footer    string
	Currency  string
	Width     int
}

// OrderReader fetches a backend order
type OrderReader interface {
	Get(ctx context.Context, id string) (*entity.Order, error)
}

// ReceiptService composes receipts and sends them to the receipt printer
type ReceiptService struct {
	printer printer.Printer
	orders  OrderReader
	catalog ProductCatalog
	cfg     ReceiptConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(p printer.Printer, orders OrderReader, catalog ProductCatalog, cfg ReceiptConfig, logger *zap.Logger) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{printer: p, orders: orders, catalog: catalog, cfg: cfg, logger: logger, now: time.Now}
}

// PrinterStatus describes the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// Status reports whether the printer is configured and reachable
func (s *ReceiptService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
	}
}

// Issue builds the receipt of a paid sale and prints it. A printer failure is
// logged and never fails the caller.
func (s *ReceiptService) Issue(ctx context.Context, sale *entity.Sale, payment *entity.Payment, cashier *entity.User) *entity.Receipt {
	r := s.header()
	r.Date = s.now().Format("2006-01-02 15:04")
	if sale.CurrentOrder != nil {
		r.OrderID = sale.CurrentOrder.ID
	}
	if payment != nil {
		r.Reference = payment.TransactionReference
		r.Tendered = payment.AmountTendered
	}
	if cashier != nil {
		r.Cashier = cashier.Name
	}
	if sale.Customer != nil {
		r.Customer = sale.Customer.Name
	}
	if sale.PaymentMethod != nil {
		r.PaymentMethod = sale.PaymentMethod.Name
	}

	for _, it := range sale.Items {
		unit := it.Product.Price
		if it.Quantity > 0 && !it.Subtotal.IsZero() {
			unit = it.Subtotal.Div(decimal.NewFromInt(int64(it.Quantity)))
		}
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			UnitPrice: unit,
			Total:     it.Subtotal,
		})
	}

	r.SubTotal = sale.Subtotal
	r.Tax = sale.Tax
	r.Discount = sale.DiscountAmount
	r.Tip = sale.TipAmount
	r.Total = sale.Total
	if r.Tendered != nil {
		r.Change = ChangeDue(*r.Tendered, r.Total)
	}

	if err := s.printer.Print(ctx, FormatReceipt(r, s.cfg.Width)); err != nil {
		s.logger.Warn("receipt not printed", zap.String("order_id", r.OrderID), zap.Error(err))
	}
	return r
}

// PrintOrder reprints the receipt of an existing order
func (s *ReceiptService) PrintOrder(ctx context.Context, businessID, orderID string) (*entity.Receipt, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	r := s.header()
	r.OrderID = order.ID
	r.Date = order.CreatedAt.Format("2006-01-02 15:04")
	if order.Customer != nil {
		r.Customer = order.Customer.Name
	}

	for _, line := range order.Items {
		name := "Product"
		if s.catalog != nil && businessID != "" {
			if p, err := s.catalog.Product(ctx, businessID, line.ProductID); err == nil {
				name = p.Name
			}
		}
		total := line.Subtotal
		if total.IsZero() {
			total = LineSubtotal(line.UnitPrice, line.Quantity)
		}
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     total,
		})
	}

	r.SubTotal = order.EffectiveSubtotal()
	r.Tax = order.TaxAmount
	r.Discount = order.Discount
	r.Tip = order.TipAmount
	r.Total = order.FinalAmount

	if err := s.printer.Print(ctx, FormatReceipt(r, s.cfg.Width)); err != nil {
		s.logger.Warn("receipt not printed", zap.String("order_id", order.ID), zap.Error(err))
		return r, fmt.Errorf("failed to print receipt: %w", err)
	}
	return r, nil
}

// TestPrint sends a sample receipt to the printer
func (s *ReceiptService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	r := s.header()
	r.OrderID = "TEST"
	r.Date = s.now().Format("2006-01-02 15:04")
	r.Items = []entity.ReceiptItem{
		{Name: "Test item", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Total: decimal.NewFromInt(10)},
	}
	r.SubTotal = decimal.NewFromInt(10)
	r.Total = decimal.NewFromInt(10)

	if err := s.printer.Print(ctx, FormatReceipt(r, s.cfg.Width)); err != nil {
		return r, fmt.Errorf("test print failed: %w", err)
	}
	return r, nil
}

func (s *ReceiptService) header() *entity.Receipt {
	return &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: s.cfg.StoreName,
			Address:   s.cfg.Address,
			Phone:     s.cfg.Phone,
			TaxID:     s.cfg.TaxID,
		},
		Currency: s.cfg.Currency,
		Footer:   s.cfg.Footer,
		Items:    []entity.ReceiptItem{},
	}
}

// ChangeDue is tendered minus total, never negative
func ChangeDue(tendered, total decimal.Decimal) decimal.Decimal {
	change := tendered.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// FormatReceipt renders a receipt as an ESC/POS job
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	money := func(d decimal.Decimal) string {
		if r.Currency != "" {
			return r.Currency + " " + d.StringFixed(2)
		}
		return d.StringFixed(2)
	}

	doc.Align(printer.AlignCenter).Bold(true).Size(printer.SizeDouble).
		Line(r.Header.StoreName).
		Size(printer.SizeNormal).Bold(false)
	if r.Header.Address != "" {
		doc.Line(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Line(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.Line("Tax ID: " + r.Header.TaxID)
	}

	doc.Align(printer.AlignLeft).Rule('-').
		Pair("Order:", r.OrderID).
		Pair("Date:", r.Date)
	if r.Reference != "" {
		doc.Pair("Ref:", r.Reference)
	}
	if r.Cashier != "" {
		doc.Pair("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.Pair("Customer:", r.Customer)
	}
	if r.PaymentMethod != "" {
		doc.Pair("Payment:", r.PaymentMethod)
	}
	doc.Rule('-')

	for _, it := range r.Items {
		doc.Pair(fmt.Sprintf("%dx %s", it.Quantity, it.Name), it.Total.StringFixed(2))
		if it.Quantity > 1 {
			doc.Line("  @ " + it.UnitPrice.StringFixed(2))
		}
	}
	doc.Rule('-')

	doc.Pair("Subtotal:", money(r.SubTotal))
	if !r.Tax.IsZero() {
		doc.Pair("Tax:", money(r.Tax))
	}
	if !r.Discount.IsZero() {
		doc.Pair("Discount:", "-"+money(r.Discount))
	}
	if !r.Tip.IsZero() {
		doc.Pair("Tip:", money(r.Tip))
	}
	doc.Bold(true).Pair("TOTAL:", money(r.Total)).Bold(false)
	if r.Tendered != nil {
		doc.Pair("Tendered:", money(*r.Tendered)).
			Pair("Change:", money(r.Change))
	}
	doc.Rule('-')

	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	doc.Align(printer.AlignCenter).Feed(1).Line(footer).Align(printer.AlignLeft).
		Feed(3).Cut()

	return doc.Bytes()
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSync(products ...entity.Product) (*OrderSync, *stubOrders, *stubCatalog) {
	orders := newStubOrders(products...)
	catalog := newStubCatalog(products...)
	catalog.taxes = []entity.Tax{vat}
	return NewOrderSync(orders, catalog, nil), orders, catalog
}

func TestOrderSync_EnsureOrderRequiresBusinessContext(t *testing.T) {
	sync, orders, _ := newSync(coffee)
	user := &entity.User{ID: "u-1"}

	_, err := sync.EnsureOrder(context.Background(), user, entity.NewSale())

	assert.True(t, errors.Is(err, apperror.ErrMissingBusinessContext))
	assert.Empty(t, orders.Calls())
}

func TestOrderSync_EnsureOrderUsesBranchBusiness(t *testing.T) {
	sync, orders, _ := newSync(coffee)
	user := &entity.User{ID: "u-1", Branch: &entity.Branch{ID: "br-1", BusinessID: "b-9"}}

	sale, err := sync.EnsureOrder(context.Background(), user, entity.NewSale())

	require.NoError(t, err)
	require.NotNil(t, sale.CurrentOrder)
	assert.Equal(t, "b-9", orders.orders[sale.CurrentOrder.ID].BusinessID)
}

func TestOrderSync_EnsureOrderKeepsExistingOrder(t *testing.T) {
	sync, orders, _ := newSync(coffee)
	sale := entity.NewSale()
	sale.CurrentOrder = &entity.Order{ID: "existing"}

	out, err := sync.EnsureOrder(context.Background(), cashier(), sale)

	require.NoError(t, err)
	assert.Equal(t, "existing", out.CurrentOrder.ID)
	assert.Empty(t, orders.Calls())
}

func TestOrderSync_AddItemKeysByBarcodeThenID(t *testing.T) {
	sync, orders, _ := newSync(coffee, bagel)
	ctx := context.Background()

	sale, err := sync.AddItem(ctx, cashier(), entity.NewSale(), coffee)
	require.NoError(t, err)
	sale, err = sync.AddItem(ctx, cashier(), sale, bagel)
	require.NoError(t, err)

	assert.Equal(t, []string{"create", "addItem:7501", "addItem:p-bagel"}, orders.Calls())
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "Coffee", sale.Items[0].Product.Name)
	assert.Equal(t, 1, sale.Items[0].Quantity)
}

func TestOrderSync_AddItemTwiceIncrementsQuantity(t *testing.T) {
	sync, _, _ := newSync(bagel)
	ctx := context.Background()

	sale, err := sync.AddItem(ctx, cashier(), entity.NewSale(), bagel)
	require.NoError(t, err)
	sale, err = sync.AddItem(ctx, cashier(), sale, bagel)
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, 2, sale.Items[0].Quantity)
	assert.True(t, sale.Subtotal.Equal(dec("8")))
}

func TestOrderSync_AddItemFailureKeepsCreatedOrder(t *testing.T) {
	sync, orders, _ := newSync(bagel)
	orders.failAddItem = apperror.NewUpstreamError(400, "Product out of stock")
	in := entity.NewSale()

	out, err := sync.AddItem(context.Background(), cashier(), in, bagel)

	assert.Error(t, err)
	require.NotNil(t, out)
	require.NotNil(t, out.CurrentOrder)
	assert.Empty(t, out.Items)
	assert.Nil(t, in.CurrentOrder)
	assert.Empty(t, in.Items)
}

func TestOrderSync_AddItemFailureOnExistingOrderReturnsNil(t *testing.T) {
	sync, orders, _ := newSync(bagel)
	ctx := context.Background()
	sale, err := sync.EnsureOrder(ctx, cashier(), entity.NewSale())
	require.NoError(t, err)

	orders.failAddItem = apperror.NewUpstreamError(400, "Product out of stock")
	out, err := sync.AddItem(ctx, cashier(), sale, bagel)

	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestOrderSync_AdjustmentFailureKeepsCreatedOrder(t *testing.T) {
	sync, orders, _ := newSync(bagel)
	orders.failAdjust = apperror.NewUpstreamError(400, "Invalid discount")
	sale := entity.NewSale()
	sale.Discount = dec("5")
	sale.DiscountType = enum.DiscountTypeFixed

	out, err := sync.AddItem(context.Background(), cashier(), sale, bagel)

	assert.Error(t, err)
	require.NotNil(t, out)
	require.NotNil(t, out.CurrentOrder)
	assert.Equal(t, []string{"create", "adjust"}, orders.Calls())
}

func TestOrderSync_AddItemRejectedOnReadOnlyOrder(t *testing.T) {
	for _, status := range []enum.OrderStatus{enum.OrderStatusPaid, enum.OrderStatusUnknown} {
		t.Run(status.String(), func(t *testing.T) {
			sync, orders, _ := newSync(bagel)
			sale := entity.NewSale()
			sale.CurrentOrder = &entity.Order{ID: "o1", Status: status}

			_, err := sync.AddItem(context.Background(), cashier(), sale, bagel)

			assert.True(t, errors.Is(err, apperror.ErrOrderReadOnly))
			assert.Empty(t, orders.Calls())
		})
	}
}

func TestOrderSync_UpdateQuantityRefetchesWhenResponseHasNoItems(t *testing.T) {
	sync, orders, _ := newSync(bagel)
	ctx := context.Background()
	sale, err := sync.AddItem(ctx, cashier(), entity.NewSale(), bagel)
	require.NoError(t, err)

	orders.omitItems = true
	sale, err = sync.UpdateQuantity(ctx, cashier(), sale, bagel.ID, 3)

	require.NoError(t, err)
	assert.Contains(t, orders.Calls(), "get")
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 3, sale.Items[0].Quantity)
	assert.True(t, sale.Total.Equal(dec("12")))
}

func TestOrderSync_UpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()

	run := func(remove bool) *entity.Sale {
		sync, _, _ := newSync(coffee, bagel)
		sale, err := sync.AddItem(ctx, cashier(), entity.NewSale(), coffee)
		require.NoError(t, err)
		sale, err = sync.AddItem(ctx, cashier(), sale, bagel)
		require.NoError(t, err)
		if remove {
			sale, err = sync.RemoveItem(ctx, cashier(), sale, coffee.ID)
		} else {
			sale, err = sync.UpdateQuantity(ctx, cashier(), sale, coffee.ID, 0)
		}
		require.NoError(t, err)
		return sale
	}

	removed, zeroed := run(true), run(false)

	require.Len(t, zeroed.Items, 1)
	assert.Equal(t, removed.Items, zeroed.Items)
	assert.True(t, removed.Total.Equal(zeroed.Total))
}

func TestOrderSync_UpdateQuantityUnknownItem(t *testing.T) {
	sync, _, _ := newSync(bagel)
	sale := entity.NewSale()
	sale.CurrentOrder = &entity.Order{ID: "o1", Items: []entity.OrderItem{}}

	_, err := sync.UpdateQuantity(context.Background(), cashier(), sale, "nope", 2)
	assert.True(t, errors.Is(err, apperror.ErrItemNotFound))

	_, err = sync.UpdateQuantity(context.Background(), cashier(), entity.NewSale(), "nope", 2)
	assert.True(t, errors.Is(err, apperror.ErrOrderRequired))
}

func TestOrderSync_UnresolvedProductsAreKept(t *testing.T) {
	sync, _, catalog := newSync(bagel)
	order := &entity.Order{
		ID:     "o1",
		Status: enum.OrderStatusPending,
		Items: []entity.OrderItem{
			{ID: "i1", ProductID: bagel.ID, Quantity: 1, UnitPrice: dec("4"), Subtotal: dec("4")},
			{ID: "i2", ProductID: "p-gone", Quantity: 2, UnitPrice: dec("1.5")},
		},
		Subtotal:    dec("7"),
		FinalAmount: dec("7"),
	}

	sale, err := sync.FromOrder(context.Background(), "b-1", order)

	require.NoError(t, err)
	require.Len(t, sale.Items, 2)
	assert.False(t, sale.Items[0].Unresolved)
	assert.True(t, sale.Items[1].Unresolved)
	assert.Equal(t, "p-gone", sale.Items[1].Product.ID)
	assert.True(t, sale.Items[1].Subtotal.Equal(dec("3")))
	assert.Equal(t, 2, catalog.lookups)
	assert.True(t, sale.Total.Equal(dec("7")))
}

func TestOrderSync_SelectCustomerWithoutOrderIsLocal(t *testing.T) {
	sync, orders, _ := newSync()

	sale, err := sync.SelectCustomer(context.Background(), cashier(), entity.NewSale(), &entity.Customer{ID: "c1", Name: "Local"})

	require.NoError(t, err)
	assert.Equal(t, "Local", sale.Customer.Name)
	assert.Empty(t, orders.Calls())
}

func TestOrderSync_SelectCustomerReconcilesFromBackend(t *testing.T) {
	sync, _, _ := newSync(bagel)
	ctx := context.Background()
	sale, err := sync.AddItem(ctx, cashier(), entity.NewSale(), bagel)
	require.NoError(t, err)

	out, err := sync.SelectCustomer(ctx, cashier(), sale, &entity.Customer{ID: "c1", Name: "Local"})

	require.NoError(t, err)
	assert.Equal(t, "Backend c1", out.Customer.Name)
	// the customer response carries no items; the cart is kept
	require.Len(t, out.Items, 1)
}

func TestOrderSync_SelectCustomerFallsBackToLocalSelection(t *testing.T) {
	sync, orders, _ := newSync(bagel)
	ctx := context.Background()
	sale, err := sync.AddItem(ctx, cashier(), entity.NewSale(), bagel)
	require.NoError(t, err)
	orders.customerEchoNil = true

	out, err := sync.SelectCustomer(ctx, cashier(), sale, &entity.Customer{ID: "c1", Name: "Local"})

	require.NoError(t, err)
	assert.Equal(t, "Local", out.Customer.Name)
}

func TestOrderSync_SelectCustomerFailureKeepsPrevious(t *testing.T) {
	sync, orders, _ := newSync(bagel)
	ctx := context.Background()
	sale, err := sync.AddItem(ctx, cashier(), entity.NewSale(), bagel)
	require.NoError(t, err)
	sale.Customer = &entity.Customer{ID: "c0", Name: "Before"}
	orders.failCustomer = apperror.NewUpstreamError(500, "boom")

	out, err := sync.SelectCustomer(ctx, cashier(), sale, &entity.Customer{ID: "c1", Name: "After"})

	assert.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, "Before", sale.Customer.Name)
}

func TestOrderSync_AdjustmentsPatchExistingOrder(t *testing.T) {
	sync, orders, _ := newSync(bagel)
	ctx := context.Background()
	sale, err := sync.AddItem(ctx, cashier(), entity.NewSale(), bagel)
	require.NoError(t, err)

	sale.TipPercentage = dec("25")
	out, err := sync.UpdateAdjustments(ctx, cashier(), sale)

	require.NoError(t, err)
	assert.Contains(t, orders.Calls(), "adjust")
	assert.True(t, out.TipAmount.Equal(dec("1")))
	assert.True(t, out.Total.Equal(dec("5")))
}

func TestOrderSync_PendingAdjustmentsCarriedToNewOrder(t *testing.T) {
	sync, orders, _ := newSync(bagel)
	sale := entity.NewSale()
	sale.Discount = dec("50")
	sale.DiscountType = enum.DiscountTypePercentage

	out, err := sync.AddItem(context.Background(), cashier(), sale, bagel)

	require.NoError(t, err)
	assert.Equal(t, []string{"create", "adjust", "addItem:p-bagel"}, orders.Calls())
	assert.True(t, out.Total.Equal(dec("2")), "got %s", out.Total)
}

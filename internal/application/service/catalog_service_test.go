package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBackend struct {
	products map[string]entity.Product
	taxes    []entity.Tax
	methods  []entity.PaymentMethod
	hits     map[string]int
}

func newCountingBackend() *countingBackend {
	return &countingBackend{
		products: map[string]entity.Product{coffee.ID: coffee, bagel.ID: bagel},
		taxes:    []entity.Tax{vat},
		methods:  []entity.PaymentMethod{cash, card},
		hits:     map[string]int{},
	}
}

func (b *countingBackend) Product(_ context.Context, id string) (*entity.Product, error) {
	b.hits["product"]++
	p, ok := b.products[id]
	if !ok {
		return &entity.Product{}, nil
	}
	return &p, nil
}

func (b *countingBackend) ProductByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	b.hits["barcode"]++
	for _, p := range b.products {
		if p.HasBarcode() && *p.Barcode == barcode {
			p := p
			return &p, nil
		}
	}
	return &entity.Product{}, nil
}

func (b *countingBackend) Taxes(context.Context) ([]entity.Tax, error) {
	b.hits["taxes"]++
	return b.taxes, nil
}

func (b *countingBackend) PaymentMethods(context.Context) ([]entity.PaymentMethod, error) {
	b.hits["methods"]++
	return b.methods, nil
}

func TestCatalogService_CachesWithinTTL(t *testing.T) {
	backend := newCountingBackend()
	svc := NewCatalogService(backend, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Product(ctx, "b-1", coffee.ID)
		require.NoError(t, err)
		_, err = svc.Taxes(ctx, "b-1")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, backend.hits["product"])
	assert.Equal(t, 1, backend.hits["taxes"])

	// a product fetched by id is also known by its barcode
	p, err := svc.ProductByBarcode(ctx, "b-1", "7501")
	require.NoError(t, err)
	assert.Equal(t, coffee.ID, p.ID)
	assert.Zero(t, backend.hits["barcode"])

	now = now.Add(2 * time.Minute)
	_, err = svc.Product(ctx, "b-1", coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.hits["product"])
}

func TestCatalogService_KeysByBusiness(t *testing.T) {
	backend := newCountingBackend()
	svc := NewCatalogService(backend, time.Minute)
	ctx := context.Background()

	_, err := svc.Taxes(ctx, "b-1")
	require.NoError(t, err)
	_, err = svc.Taxes(ctx, "b-2")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.hits["taxes"])

	svc.Invalidate("b-1")
	_, err = svc.Taxes(ctx, "b-1")
	require.NoError(t, err)
	_, err = svc.Taxes(ctx, "b-2")
	require.NoError(t, err)
	assert.Equal(t, 3, backend.hits["taxes"])
}

func TestCatalogService_ZeroTTLDisablesCache(t *testing.T) {
	backend := newCountingBackend()
	svc := NewCatalogService(backend, 0)
	ctx := context.Background()

	_, _ = svc.PaymentMethods(ctx, "b-1")
	_, _ = svc.PaymentMethods(ctx, "b-1")

	assert.Equal(t, 2, backend.hits["methods"])
}

func TestCatalogService_NotFound(t *testing.T) {
	svc := NewCatalogService(newCountingBackend(), time.Minute)
	ctx := context.Background()

	_, err := svc.Product(ctx, "b-1", "missing")
	assert.Error(t, err)

	_, err = svc.ProductByBarcode(ctx, "b-1", "  ")
	assert.Error(t, err)

	_, err = svc.PaymentMethod(ctx, "b-1", "m-nope")
	assert.Error(t, err)

	m, err := svc.PaymentMethod(ctx, "b-1", cash.ID)
	require.NoError(t, err)
	assert.True(t, m.IsCash())
}

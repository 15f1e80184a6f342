package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
)

// CatalogBackend is the backend catalog surface behind the cache
type CatalogBackend interface {
	Product(ctx context.Context, id string) (*entity.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Taxes(ctx context.Context) ([]entity.Tax, error)
	PaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error)
}

type apiCatalog struct {
	c *posapi.Client
}

// NewCatalogBackend adapts the backend client to CatalogBackend
func NewCatalogBackend(c *posapi.Client) CatalogBackend {
	return &apiCatalog{c: c}
}

func (a *apiCatalog) Product(ctx context.Context, id string) (*entity.Product, error) {
	return a.c.Products.Get(ctx, id)
}

func (a *apiCatalog) ProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return a.c.Products.ByBarcode(ctx, barcode)
}

func (a *apiCatalog) Taxes(ctx context.Context) ([]entity.Tax, error) {
	return a.c.Taxes.List(ctx, nil)
}

func (a *apiCatalog) PaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	return a.c.PaymentMethods.List(ctx, nil)
}

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

// CatalogService caches products, taxes and payment methods per business
type CatalogService struct {
	backend CatalogBackend
	ttl     time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCatalogService creates a catalog cache. A ttl of zero disables caching.
func NewCatalogService(backend CatalogBackend, ttl time.Duration) *CatalogService {
	return &CatalogService{
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(businessID, kind, id string) string {
	return businessID + "|" + kind + "|" + id
}

func (s *CatalogService) get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || s.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (s *CatalogService) put(key string, value interface{}) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[key] = cacheEntry{value: value, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

// Product returns a product by id
func (s *CatalogService) Product(ctx context.Context, businessID, productID string) (*entity.Product, error) {
	key := cacheKey(businessID, "product", productID)
	if v, ok := s.get(key); ok {
		p := v.(entity.Product)
		return &p, nil
	}

	p, err := s.backend.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ID == "" {
		return nil, apperror.NewNotFoundError("Product")
	}
	s.remember(businessID, *p)
	return p, nil
}

// ProductByBarcode returns a product by barcode
func (s *CatalogService) ProductByBarcode(ctx context.Context, businessID, barcode string) (*entity.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperror.NewBadRequestError("Barcode is required")
	}

	key := cacheKey(businessID, "barcode", barcode)
	if v, ok := s.get(key); ok {
		p := v.(entity.Product)
		return &p, nil
	}

	p, err := s.backend.ProductByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ID == "" {
		return nil, apperror.NewNotFoundError("Product")
	}
	s.remember(businessID, *p)
	return p, nil
}

func (s *CatalogService) remember(businessID string, p entity.Product) {
	s.put(cacheKey(businessID, "product", p.ID), p)
	if p.HasBarcode() {
		s.put(cacheKey(businessID, "barcode", *p.Barcode), p)
	}
}

// Taxes returns the taxes configured for the business
func (s *CatalogService) Taxes(ctx context.Context, businessID string) ([]entity.Tax, error) {
	key := cacheKey(businessID, "taxes", "")
	if v, ok := s.get(key); ok {
		return append([]entity.Tax(nil), v.([]entity.Tax)...), nil
	}

	taxes, err := s.backend.Taxes(ctx)
	if err != nil {
		return nil, err
	}
	s.put(key, append([]entity.Tax(nil), taxes...))
	return taxes, nil
}

// PaymentMethods returns the tenders accepted by the business
func (s *CatalogService) PaymentMethods(ctx context.Context, businessID string) ([]entity.PaymentMethod, error) {
	key := cacheKey(businessID, "payment_methods", "")
	if v, ok := s.get(key); ok {
		return append([]entity.PaymentMethod(nil), v.([]entity.PaymentMethod)...), nil
	}

	methods, err := s.backend.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	s.put(key, append([]entity.PaymentMethod(nil), methods...))
	return methods, nil
}

// PaymentMethod returns one tender by id
func (s *CatalogService) PaymentMethod(ctx context.Context, businessID, methodID string) (*entity.PaymentMethod, error) {
	methods, err := s.PaymentMethods(ctx, businessID)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].ID == methodID {
			return &methods[i], nil
		}
	}
	return nil, apperror.NewNotFoundError("Payment method")
}

// Invalidate drops every cached entry of the business
func (s *CatalogService) Invalidate(businessID string) {
	prefix := businessID + "|"
	s.mu.Lock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
}

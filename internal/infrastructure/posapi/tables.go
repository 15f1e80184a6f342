package posapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// ProductsAPI extends the product resource with barcode lookup
type ProductsAPI struct {
	*Resource[entity.Product]
}

// ByBarcode looks a product up by its barcode
func (p *ProductsAPI) ByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	var out entity.Product
	if err := p.c.do(ctx, request{method: http.MethodGet, path: p.path + "/barcode/" + escape(barcode)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TablesAPI extends the table resource with availability
type TablesAPI struct {
	*Resource[entity.Table]
}

// Available lists the tables that can be seated
func (t *TablesAPI) Available(ctx context.Context, branchID string) ([]entity.Table, error) {
	q := url.Values{}
	if branchID != "" {
		q.Set("branchId", branchID)
	}
	var page Page[entity.Table]
	if err := t.c.do(ctx, request{method: http.MethodGet, path: t.path + "/available", query: q}, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		return []entity.Table{}, nil
	}
	return page.Items, nil
}

// TableOrdersAPI covers the table session endpoints used by waiters
type TableOrdersAPI struct {
	c *Client
}

// CreateTableOrderInput seats a table
type CreateTableOrderInput struct {
	TableID  string `json:"tableId"`
	WaiterID string `json:"waiterId"`
	Guests   int    `json:"guests"`
}

// Create opens a table session
func (t *TableOrdersAPI) Create(ctx context.Context, input CreateTableOrderInput) (*entity.TableOrder, error) {
	var out entity.TableOrder
	if err := t.c.do(ctx, request{method: http.MethodPost, path: "/table-orders", body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a table session with its orders
func (t *TableOrdersAPI) Get(ctx context.Context, id string) (*entity.TableOrder, error) {
	var out entity.TableOrder
	if err := t.c.do(ctx, request{method: http.MethodGet, path: "/table-orders/" + escape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns table sessions, optionally only open ones
func (t *TableOrdersAPI) List(ctx context.Context, openOnly bool) ([]entity.TableOrder, error) {
	q := url.Values{}
	if openOnly {
		q.Set("status", "OPEN")
	}
	var page Page[entity.TableOrder]
	if err := t.c.do(ctx, request{method: http.MethodGet, path: "/table-orders", query: q}, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		return []entity.TableOrder{}, nil
	}
	return page.Items, nil
}

// Close ends a table session
func (t *TableOrdersAPI) Close(ctx context.Context, id string) (*entity.TableOrder, error) {
	var out entity.TableOrder
	if err := t.c.do(ctx, request{method: http.MethodPost, path: "/table-orders/" + escape(id) + "/close"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package posapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/sangkips/pos-console/pkg/pagination"
)

// Page is a page of backend entities. The backend answers list calls either
// with a bare array or with an object carrying the items and a total.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		p.Items = items
		p.Total = int64(len(items))
		return nil
	}

	var obj struct {
		Items      []T   `json:"items"`
		Data       []T   `json:"data"`
		Results    []T   `json:"results"`
		Total      int64 `json:"total"`
		TotalItems int64 `json:"totalItems"`
		Count      int64 `json:"count"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	switch {
	case obj.Items != nil:
		p.Items = obj.Items
	case obj.Data != nil:
		p.Items = obj.Data
	default:
		p.Items = obj.Results
	}
	switch {
	case obj.Total > 0:
		p.Total = obj.Total
	case obj.TotalItems > 0:
		p.Total = obj.TotalItems
	case obj.Count > 0:
		p.Total = obj.Count
	default:
		p.Total = int64(len(p.Items))
	}
	p.Page = obj.Page
	p.Limit = obj.Limit
	return nil
}

// Resource is a generic CRUD endpoint of the backend
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds a CRUD resource to its collection path
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

// List returns every entity of the collection
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var page Page[T]
	if err := r.c.do(ctx, request{method: http.MethodGet, path: r.path, query: query}, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		return []T{}, nil
	}
	return page.Items, nil
}

// ListPage returns one page of the collection
func (r *Resource[T]) ListPage(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[T], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	var page Page[T]
	if err := r.c.do(ctx, request{method: http.MethodGet, path: r.path, query: params.Query()}, &page); err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(page.Items, pagination.NewPagination(params.Page, params.PerPage, page.Total)), nil
}

// Get fetches one entity by id
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodGet, path: r.path + "/" + escape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new entity; body is sent as is
func (r *Resource[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodPost, path: r.path, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches an entity
func (r *Resource[T]) Update(ctx context.Context, id string, body interface{}) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodPatch, path: r.path + "/" + escape(id), body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an entity
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: r.path + "/" + escape(id)}, nil)
}

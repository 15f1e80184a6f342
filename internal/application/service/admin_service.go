package service

import (
	"context"
	"net/url"

	"github.com/sangkips/pos-console/pkg/pagination"
)

// CrudAPI is a backend collection managed from the admin views
type CrudAPI[T any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	ListPage(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, body interface{}) (*T, error)
	Update(ctx context.Context, id string, body interface{}) (*T, error)
	Delete(ctx context.Context, id string) error
}

// AdminService passes admin CRUD through to the backend. Writes drop the
// business's cached catalog so the counter sees them.
type AdminService[T any] struct {
	api        CrudAPI[T]
	invalidate func(businessID string)
}

// NewAdminService creates an admin service; invalidate may be nil
func NewAdminService[T any](api CrudAPI[T], invalidate func(businessID string)) *AdminService[T] {
	return &AdminService[T]{api: api, invalidate: invalidate}
}

// List returns the whole collection
func (s *AdminService[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	return s.api.List(ctx, query)
}

// ListPage returns one page of the collection
func (s *AdminService[T]) ListPage(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[T], error) {
	return s.api.ListPage(ctx, params)
}

// Get returns one entity
func (s *AdminService[T]) Get(ctx context.Context, id string) (*T, error) {
	return s.api.Get(ctx, id)
}

// Create creates an entity
func (s *AdminService[T]) Create(ctx context.Context, businessID string, body map[string]interface{}) (*T, error) {
	out, err := s.api.Create(ctx, body)
	if err != nil {
		return nil, err
	}
	s.changed(businessID)
	return out, nil
}

// Update patches an entity
func (s *AdminService[T]) Update(ctx context.Context, businessID, id string, body map[string]interface{}) (*T, error) {
	out, err := s.api.Update(ctx, id, body)
	if err != nil {
		return nil, err
	}
	s.changed(businessID)
	return out, nil
}

// Delete removes an entity
func (s *AdminService[T]) Delete(ctx context.Context, businessID, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(businessID)
	return nil
}

func (s *AdminService[T]) changed(businessID string) {
	if s.invalidate != nil {
		s.invalidate(businessID)
	}
}

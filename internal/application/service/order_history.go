package service

import (
	"context"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
)

// OrderLister lists backend orders
type OrderLister interface {
	List(ctx context.Context, filter posapi.ListOrdersFilter) ([]entity.Order, error)
	Get(ctx context.Context, id string) (*entity.Order, error)
}

// OrderHistory serves the order list views. Cashiers and waiters only see
// their own orders; admins see every order of the business.
type OrderHistory struct {
	orders OrderLister
}

// NewOrderHistory creates a new order history service
func NewOrderHistory(orders OrderLister) *OrderHistory {
	return &OrderHistory{orders: orders}
}

// List returns the orders matching filter, scoped to the user
func (s *OrderHistory) List(ctx context.Context, user *entity.User, filter posapi.ListOrdersFilter) ([]entity.Order, error) {
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}
	if user.ConsoleRole() != enum.RoleAdmin {
		filter.CashierID = user.ID
	}
	return s.orders.List(ctx, filter)
}

// Get returns one order, hiding other cashiers' orders from non-admins
func (s *OrderHistory) Get(ctx context.Context, user *entity.User, id string) (*entity.Order, error) {
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ConsoleRole() != enum.RoleAdmin && order.CashierID != "" && order.CashierID != user.ID {
		return nil, apperror.ErrAccessDenied
	}
	return order, nil
}

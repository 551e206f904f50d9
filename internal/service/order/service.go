package order

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

type Service struct {
	repo orderRepo
}

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error
}

func New(repo orderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	return s.repo.GetByCode(ctx, code)
}

// ListByUser returns the account's purchase history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// List returns all orders, optionally filtered by status. An empty, "ALL" or
// unknown filter returns everything.
func (s *Service) List(ctx context.Context, statusFilter string) ([]domain.Order, error) {
	statusFilter = strings.ToUpper(strings.TrimSpace(statusFilter))
	if statusFilter == "" || statusFilter == "ALL" {
		return s.repo.List(ctx, nil)
	}
	status, ok := domain.ParseOrderStatus(statusFilter)
	if !ok {
		return s.repo.List(ctx, nil)
	}
	return s.repo.List(ctx, &status)
}

// UpdateStatus applies a lifecycle transition. Terminal orders (DELIVERED,
// CANCELLED) reject any further change.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next domain.OrderStatus) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("%s to %s: %w", order.Status, next, domain.ErrInvalidStatusTransition)
	}
	return s.repo.UpdateStatus(ctx, id, order.Status, next)
}

package order

import (
	"context"

	"github.com/jackc/pgx/v5"

	"storefront/internal/domain"
)

type Repository interface {
	// Create inserts the order header and its items within tx, filling in
	// the generated ids and created_at. A duplicate order code surfaces as
	// an error satisfying IsCodeConflict.
	Create(ctx context.Context, tx pgx.Tx, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	// UpdateStatus applies the change only if the row still holds the
	// expected current status; domain.ErrInvalidStatusTransition otherwise.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error
}

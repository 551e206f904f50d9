package cart

import (
	"context"

	"github.com/jackc/pgx/v5"

	"storefront/internal/domain"
)

type AddItemInput struct {
	CartID    int64
	VariantID int64
	Quantity  int
	UnitPrice int64
}

type Repository interface {
	// GetOrCreateByUser returns the single cart bound to the account,
	// creating it atomically on first touch.
	GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	// GetOrCreateByToken does the same for a guest token. An unknown token
	// gets a fresh cart bound to that token.
	GetOrCreateByToken(ctx context.Context, token string) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	// AddItem inserts a line or increments an existing line for the same
	// variant, validating the cumulative quantity against current stock
	// inside one transaction.
	AddItem(ctx context.Context, in AddItemInput) error
	// RemoveItem deletes the line only if it belongs to the given cart;
	// domain.ErrNotFound otherwise.
	RemoveItem(ctx context.Context, cartID, itemID int64) error
	// UpdateItemQuantity sets a line's quantity after re-validating stock.
	// The caller handles quantity <= 0 as removal.
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
	// Clear deletes all lines within tx, leaving the cart row intact.
	Clear(ctx context.Context, tx pgx.Tx, cartID int64) error
}

package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"

	"storefront/internal/domain"
)

// StockRow identifies a variant by product and selector and carries the
// absolute quantity to set.
type StockRow struct {
	ProductID int64
	SizeName  string
	Color     string
	Quantity  int
	SKU       string
}

type Repository interface {
	// VariantBySelector resolves the (product, size name, color) triple to a
	// single variant. Returns domain.ErrNotFound when no such combination
	// exists.
	VariantBySelector(ctx context.Context, productID int64, sizeName, color string) (*domain.Variant, error)
	VariantByID(ctx context.Context, id int64) (*domain.Variant, error)
	ProductByID(ctx context.Context, id int64) (*domain.Product, error)
	// DecrementStock atomically subtracts quantity from a variant's stock
	// within tx, failing with domain.ErrInsufficientStock (carrying the
	// available count) instead of ever going negative.
	DecrementStock(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error
	// UpsertVariant sets a variant's quantity, creating the variant when the
	// (product, size, color) combination does not exist yet. The product and
	// size must already be present.
	UpsertVariant(ctx context.Context, row StockRow) error
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const variantColumns = `
pv.id, pv.product_id, p.name, pv.size_id, s.size_name, pv.color, pv.quantity, COALESCE(pv.sku, '')
`

func (r *postgresRepo) VariantBySelector(ctx context.Context, productID int64, sizeName, color string) (*domain.Variant, error) {
	const q = `
SELECT ` + variantColumns + `
FROM product_variants pv
JOIN products p ON p.id = pv.product_id
JOIN sizes s ON s.id = pv.size_id
WHERE pv.product_id = $1 AND s.size_name = $2 AND pv.color = $3
`
	return r.fetchVariant(ctx, q, productID, sizeName, color)
}

func (r *postgresRepo) VariantByID(ctx context.Context, id int64) (*domain.Variant, error) {
	const q = `
SELECT ` + variantColumns + `
FROM product_variants pv
JOIN products p ON p.id = pv.product_id
JOIN sizes s ON s.id = pv.size_id
WHERE pv.id = $1
`
	return r.fetchVariant(ctx, q, id)
}

func (r *postgresRepo) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT id, name, price, discount_percent, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Price, &p.DiscountPercent, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get product id=%d error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) DecrementStock(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error {
	cmd, err := tx.Exec(ctx, `
UPDATE product_variants
SET quantity = quantity - $2
WHERE id = $1 AND quantity >= $2
`, variantID, quantity)
	if err != nil {
		r.logger.Printf("catalog repo: decrement variant_id=%d qty=%d error=%v", variantID, quantity, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		var available int
		err := tx.QueryRow(ctx, `SELECT quantity FROM product_variants WHERE id = $1`, variantID).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrVariantUnavailable
			}
			return err
		}
		return fmt.Errorf("only %d left: %w", available, domain.ErrInsufficientStock)
	}
	return nil
}

func (r *postgresRepo) UpsertVariant(ctx context.Context, row StockRow) error {
	var sizeID int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM sizes WHERE size_name = $1`, row.SizeName).Scan(&sizeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("size %q: %w", row.SizeName, domain.ErrNotFound)
		}
		return err
	}

	cmd, err := r.pool.Exec(ctx, `
INSERT INTO product_variants (product_id, size_id, color, quantity, sku)
SELECT p.id, $2, $3, $4, NULLIF($5, '')
FROM products p
WHERE p.id = $1
ON CONFLICT (product_id, size_id, color) DO UPDATE
SET quantity = EXCLUDED.quantity,
    sku = COALESCE(EXCLUDED.sku, product_variants.sku)
`, row.ProductID, sizeID, row.Color, row.Quantity, row.SKU)
	if err != nil {
		r.logger.Printf("catalog repo: upsert variant product_id=%d error=%v", row.ProductID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", row.ProductID, domain.ErrNotFound)
	}
	return nil
}

func (r *postgresRepo) fetchVariant(ctx context.Context, q string, args ...interface{}) (*domain.Variant, error) {
	var v domain.Variant
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&v.ID,
		&v.ProductID,
		&v.ProductName,
		&v.SizeID,
		&v.SizeName,
		&v.Color,
		&v.Quantity,
		&v.SKU,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: fetch variant error=%v", err)
		return nil, err
	}
	return &v, nil
}

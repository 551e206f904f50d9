package cart

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

const cartColumns = `id, user_id, session_token, created_at, updated_at`

func (r *postgresRepo) GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	// The no-op DO UPDATE makes the insert return the existing row, so two
	// concurrent first requests for a new account converge on one cart.
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) WHERE user_id IS NOT NULL
DO UPDATE SET updated_at = now()
RETURNING ` + cartColumns + `
`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) GetOrCreateByToken(ctx context.Context, token string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (session_token)
VALUES ($1)
ON CONFLICT (session_token) WHERE session_token IS NOT NULL
DO UPDATE SET updated_at = now()
RETURNING ` + cartColumns + `
`
	return r.fetchCart(ctx, q, token)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) AddItem(ctx context.Context, in AddItemInput) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var stock int
	if err := tx.QueryRow(ctx, `
SELECT quantity FROM product_variants WHERE id = $1
`, in.VariantID).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrVariantUnavailable
		}
		return err
	}

	var itemID int64
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id, quantity
FROM cart_items
WHERE cart_id = $1 AND variant_id = $2
`, in.CartID, in.VariantID).Scan(&itemID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if existingQty+in.Quantity > stock {
		return fmt.Errorf("only %d left: %w", stock, domain.ErrInsufficientStock)
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = quantity + $2
WHERE id = $1
`, itemID, in.Quantity); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, variant_id, quantity, price_at_time)
VALUES ($1, $2, $3, $4)
`, in.CartID, in.VariantID, in.Quantity, in.UnitPrice); err != nil {
			return err
		}
	}

	if err := touchCart(ctx, tx, in.CartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID)
	if err != nil {
		r.logger.Printf("cart repo: remove item id=%d cart_id=%d error=%v", itemID, cartID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var variantID int64
	err = tx.QueryRow(ctx, `
SELECT variant_id
FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID).Scan(&variantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var stock int
	if err := tx.QueryRow(ctx, `
SELECT quantity FROM product_variants WHERE id = $1
`, variantID).Scan(&stock); err != nil {
		return err
	}
	if quantity > stock {
		return fmt.Errorf("only %d left: %w", stock, domain.ErrInsufficientStock)
	}

	if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $3
WHERE id = $1 AND cart_id = $2
`, itemID, cartID, quantity); err != nil {
		return err
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, tx pgx.Tx, cartID int64) error {
	if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1
`, cartID); err != nil {
		return err
	}
	return touchCart(ctx, tx, cartID)
}

func (r *postgresRepo) fetchCart(ctx context.Context, q string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionToken,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: fetch cart error=%v", err)
		return nil, err
	}

	const itemsQuery = `
SELECT ci.id, ci.cart_id, ci.variant_id, p.name, s.size_name, pv.color, ci.quantity, ci.price_at_time, ci.created_at
FROM cart_items ci
JOIN product_variants pv ON pv.id = ci.variant_id
JOIN products p ON p.id = pv.product_id
JOIN sizes s ON s.id = pv.size_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at ASC, ci.id ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.VariantID,
			&item.ProductName,
			&item.SizeName,
			&item.Color,
			&item.Quantity,
			&item.PriceAtTime,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID int64) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET updated_at = now()
WHERE id = $1
`, cartID)
	return err
}

package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// IsCodeConflict reports whether err is a unique violation on the order code.
func IsCodeConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_code_key"
}

func (r *postgresRepo) Create(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	const headerQ = `
INSERT INTO orders (order_code, user_id, recipient_name, recipient_phone, delivery_address, note, payment_method, voucher_id, subtotal, discount_amount, total, status)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12)
RETURNING id, created_at
`
	err := tx.QueryRow(ctx, headerQ,
		o.OrderCode,
		o.UserID,
		o.RecipientName,
		o.RecipientPhone,
		o.DeliveryAddress,
		o.Note,
		o.PaymentMethod,
		o.VoucherID,
		o.Subtotal,
		o.DiscountAmount,
		o.Total,
		o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if !IsCodeConflict(err) {
			r.logger.Printf("order repo: insert code=%s error=%v", o.OrderCode, err)
		}
		return err
	}

	const itemQ = `
INSERT INTO order_items (order_id, variant_id, product_name, size_name, color, quantity, price)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		if err := tx.QueryRow(ctx, itemQ,
			o.ID,
			item.VariantID,
			item.ProductName,
			item.SizeName,
			item.Color,
			item.Quantity,
			item.Price,
		).Scan(&item.ID); err != nil {
			r.logger.Printf("order repo: insert item order_id=%d variant_id=%d error=%v", o.ID, item.VariantID, err)
			return err
		}
	}
	return nil
}

const orderColumns = `
id, order_code, user_id, recipient_name, recipient_phone, delivery_address, COALESCE(note, ''), payment_method, voucher_id, subtotal, discount_amount, total, status, created_at
`

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	return r.fetchOrder(ctx, q, id)
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE order_code = $1
`
	return r.fetchOrder(ctx, q, code)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.fetchOrders(ctx, q, userID)
}

func (r *postgresRepo) List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	if status != nil {
		const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE status = $1
ORDER BY created_at DESC
`
		return r.fetchOrders(ctx, q, *status)
	}
	const q = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
`
	return r.fetchOrders(ctx, q)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $3
WHERE id = $1 AND status = $2
`, id, from, to)
	if err != nil {
		r.logger.Printf("order repo: update status id=%d to=%s error=%v", id, to, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, args ...interface{}) (*domain.Order, error) {
	var o domain.Order
	if err := r.pool.QueryRow(ctx, q, args...).Scan(
		&o.ID,
		&o.OrderCode,
		&o.UserID,
		&o.RecipientName,
		&o.RecipientPhone,
		&o.DeliveryAddress,
		&o.Note,
		&o.PaymentMethod,
		&o.VoucherID,
		&o.Subtotal,
		&o.DiscountAmount,
		&o.Total,
		&o.Status,
		&o.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		r.logger.Printf("order repo: fetch error=%v", err)
		return nil, err
	}

	items, err := r.fetchItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *postgresRepo) fetchOrders(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.OrderCode,
			&o.UserID,
			&o.RecipientName,
			&o.RecipientPhone,
			&o.DeliveryAddress,
			&o.Note,
			&o.PaymentMethod,
			&o.VoucherID,
			&o.Subtotal,
			&o.DiscountAmount,
			&o.Total,
			&o.Status,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) fetchItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	const q = `
SELECT id, order_id, variant_id, product_name, size_name, color, quantity, price
FROM order_items
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.VariantID,
			&item.ProductName,
			&item.SizeName,
			&item.Color,
			&item.Quantity,
			&item.Price,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

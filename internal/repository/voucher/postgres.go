package voucher

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

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

const voucherColumns = `
id, code, COALESCE(description, ''), discount_type, discount_amount, min_order, quantity, usage_limit, used_count, start_date, end_date, status
`

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	const q = `
SELECT ` + voucherColumns + `
FROM vouchers
WHERE UPPER(code) = UPPER($1)
`
	var v domain.Voucher
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&v.ID,
		&v.Code,
		&v.Description,
		&v.DiscountType,
		&v.DiscountAmount,
		&v.MinOrder,
		&v.Quantity,
		&v.UsageLimit,
		&v.UsedCount,
		&v.StartDate,
		&v.EndDate,
		&v.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("voucher repo: get code=%s error=%v", code, err)
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) ListActive(ctx context.Context, now time.Time) ([]domain.Voucher, error) {
	const q = `
SELECT ` + voucherColumns + `
FROM vouchers
WHERE status = 1
  AND quantity > 0
  AND (start_date IS NULL OR start_date <= $1)
  AND (end_date IS NULL OR end_date >= $1)
ORDER BY code ASC
`
	rows, err := r.pool.Query(ctx, q, now)
	if err != nil {
		r.logger.Printf("voucher repo: list active error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Voucher
	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(
			&v.ID,
			&v.Code,
			&v.Description,
			&v.DiscountType,
			&v.DiscountAmount,
			&v.MinOrder,
			&v.Quantity,
			&v.UsageLimit,
			&v.UsedCount,
			&v.StartDate,
			&v.EndDate,
			&v.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Redeem(ctx context.Context, tx pgx.Tx, id int64) error {
	cmd, err := tx.Exec(ctx, `
UPDATE vouchers
SET used_count = used_count + 1,
    quantity = quantity - 1
WHERE id = $1 AND quantity > 0
`, id)
	if err != nil {
		r.logger.Printf("voucher repo: redeem id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrVoucherExhausted
	}
	return nil
}

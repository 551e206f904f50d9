package voucher

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"storefront/internal/domain"
)

type Repository interface {
	// GetByCode matches the code case-insensitively.
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	// ListActive returns vouchers usable on the given date: active status,
	// remaining quantity and an open validity window.
	ListActive(ctx context.Context, now time.Time) ([]domain.Voucher, error)
	// Redeem bumps used_count and burns one unit of the usage budget within
	// tx. Fails with domain.ErrVoucherExhausted when the budget is spent,
	// never driving it negative.
	Redeem(ctx context.Context, tx pgx.Tx, id int64) error
}

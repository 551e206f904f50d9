package voucher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
)

type Service struct {
	repo voucherRepo
	now  func() time.Time
}

type voucherRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	ListActive(ctx context.Context, now time.Time) ([]domain.Voucher, error)
}

func New(repo voucherRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate checks a code against the rules in order, short-circuiting on the
// first failure: existence, active status and remaining budget, validity
// window (inclusive), minimum order. It never mutates the voucher.
func (s *Service) Validate(ctx context.Context, code string, subtotal int64) (*domain.Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrVoucherNotFound
	}

	v, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, err
	}

	if v.Status != domain.VoucherActive || v.Quantity <= 0 {
		return nil, domain.ErrVoucherExhausted
	}

	today := dateOnly(s.now())
	if v.StartDate != nil && dateOnly(*v.StartDate).After(today) {
		return nil, fmt.Errorf("not valid before %s: %w", v.StartDate.Format("2006-01-02"), domain.ErrVoucherExpired)
	}
	if v.EndDate != nil && dateOnly(*v.EndDate).Before(today) {
		return nil, fmt.Errorf("expired on %s: %w", v.EndDate.Format("2006-01-02"), domain.ErrVoucherExpired)
	}

	if subtotal < v.MinOrder {
		return nil, fmt.Errorf("minimum order %d: %w", v.MinOrder, domain.ErrVoucherMinOrderNotMet)
	}

	return v, nil
}

// CalculateDiscount computes the amount a voucher takes off the subtotal.
// Percentage discounts round half-up to a whole currency unit; fixed-amount
// discounts are capped at the subtotal so the final total never goes
// negative.
func CalculateDiscount(v *domain.Voucher, subtotal int64) int64 {
	switch v.DiscountType {
	case domain.DiscountPercent:
		return (subtotal*v.DiscountAmount + 50) / 100
	case domain.DiscountAmount:
		if v.DiscountAmount > subtotal {
			return subtotal
		}
		return v.DiscountAmount
	}
	return 0
}

// ListAvailable returns vouchers a shopper could apply today.
func (s *Service) ListAvailable(ctx context.Context) ([]domain.Voucher, error) {
	return s.repo.ListActive(ctx, dateOnly(s.now()))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

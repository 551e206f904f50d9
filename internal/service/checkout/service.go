package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
	vouchersvc "storefront/internal/service/voucher"
)

// maxCodeAttempts bounds the retries when a generated order code collides.
const maxCodeAttempts = 5

// Service converts a cart into a persisted order. The whole attempt runs in
// one database transaction: stock decrement, order insert, voucher
// redemption and cart clearing either all happen or none do.
type Service struct {
	pool     *pgxpool.Pool
	carts    cartRepo
	catalog  catalogRepo
	orders   orderRepo
	vouchers voucherValidator
	redeemer voucherRedeemer
	logger   *log.Logger

	now     func() time.Time
	randInt func(n int) int
}

type cartRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	Clear(ctx context.Context, tx pgx.Tx, cartID int64) error
}

type catalogRepo interface {
	DecrementStock(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error
}

type orderRepo interface {
	Create(ctx context.Context, tx pgx.Tx, o *domain.Order) error
}

type voucherValidator interface {
	Validate(ctx context.Context, code string, subtotal int64) (*domain.Voucher, error)
}

type voucherRedeemer interface {
	Redeem(ctx context.Context, tx pgx.Tx, id int64) error
}

func New(pool *pgxpool.Pool, carts cartRepo, catalog catalogRepo, orders orderRepo, vouchers voucherValidator, redeemer voucherRedeemer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		pool:     pool,
		carts:    carts,
		catalog:  catalog,
		orders:   orders,
		vouchers: vouchers,
		redeemer: redeemer,
		logger:   logger,
		now:      time.Now,
		randInt:  rand.IntN,
	}
}

type Input struct {
	CartID          int64
	UserID          *int64
	RecipientName   string
	RecipientPhone  string
	DeliveryAddress string
	Note            string
	PaymentMethod   string
	// VoucherCode is revalidated server-side; any client-computed discount
	// figure is ignored.
	VoucherCode string
}

// PlaceOrder runs one checkout attempt. Validation failures surface as
// business errors with no side effects; once the order is persisted the
// remaining steps share its transaction, so a failure rolls everything back.
func (s *Service) PlaceOrder(ctx context.Context, in Input) (*domain.Order, error) {
	cart, err := s.carts.GetByID(ctx, in.CartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	subtotal := cart.Subtotal()

	var voucher *domain.Voucher
	var discount int64
	if code := strings.TrimSpace(in.VoucherCode); code != "" {
		voucher, err = s.vouchers.Validate(ctx, code, subtotal)
		if err != nil {
			return nil, err
		}
		discount = vouchersvc.CalculateDiscount(voucher, subtotal)
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Conditional decrement per line replaces a separate read-then-write
	// stock check: concurrent checkouts racing for the last unit serialize
	// here and the loser aborts.
	for _, item := range cart.Items {
		if err := s.catalog.DecrementStock(ctx, tx, item.VariantID, item.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrVariantUnavailable) {
				return nil, fmt.Errorf("%s (size %s, color %s): %w", item.ProductName, item.SizeName, item.Color, err)
			}
			return nil, err
		}
	}

	order := &domain.Order{
		UserID:          in.UserID,
		RecipientName:   in.RecipientName,
		RecipientPhone:  in.RecipientPhone,
		DeliveryAddress: in.DeliveryAddress,
		Note:            in.Note,
		PaymentMethod:   in.PaymentMethod,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		Total:           total,
		Status:          domain.StatusPending,
		Items:           orderItemsFromCart(cart.Items),
	}
	if voucher != nil {
		order.VoucherID = &voucher.ID
	}

	if err := s.createWithFreshCode(ctx, tx, order); err != nil {
		return nil, err
	}

	if voucher != nil {
		if err := s.redeemer.Redeem(ctx, tx, voucher.ID); err != nil {
			return nil, err
		}
	}

	if err := s.carts.Clear(ctx, tx, cart.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Printf("checkout: order %s placed cart_id=%d total=%d", order.OrderCode, cart.ID, order.Total)
	return order, nil
}

// createWithFreshCode inserts the order, regenerating the code on a unique
// violation. Each attempt runs in a savepoint so a collision does not abort
// the surrounding transaction.
func (s *Service) createWithFreshCode(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		order.OrderCode = s.generateOrderCode()

		inner, err := tx.Begin(ctx)
		if err != nil {
			return err
		}
		if err := s.orders.Create(ctx, inner, order); err != nil {
			inner.Rollback(ctx)
			if orderrepo.IsCodeConflict(err) {
				lastErr = err
				continue
			}
			return err
		}
		return inner.Commit(ctx)
	}
	return fmt.Errorf("order code collision after %d attempts: %w", maxCodeAttempts, lastErr)
}

// generateOrderCode builds the human-facing identifier: "CM" + yymmdd + a
// four digit random suffix.
func (s *Service) generateOrderCode() string {
	datePart := s.now().Format("060102")
	return fmt.Sprintf("CM%s%d", datePart, s.randInt(9000)+1000)
}

func orderItemsFromCart(items []domain.CartItem) []domain.OrderItem {
	result := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		result = append(result, domain.OrderItem{
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			SizeName:    item.SizeName,
			Color:       item.Color,
			Quantity:    item.Quantity,
			Price:       item.PriceAtTime,
		})
	}
	return result
}

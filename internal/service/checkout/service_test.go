package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func TestGenerateOrderCode(t *testing.T) {
	svc := &Service{
		now:     func() time.Time { return time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC) },
		randInt: func(n int) int { return 2345 },
	}

	assert.Equal(t, "CM2603153345", svc.generateOrderCode())
}

func TestGenerateOrderCodeSuffixRange(t *testing.T) {
	svc := &Service{
		now:     time.Now,
		randInt: func(n int) int { return 0 },
	}
	code := svc.generateOrderCode()
	assert.Len(t, code, 12)
	assert.Equal(t, "1000", code[8:], "suffix floor keeps the code four digits")

	svc.randInt = func(n int) int { return n - 1 }
	code = svc.generateOrderCode()
	assert.Equal(t, "9999", code[8:])
}

func TestOrderItemsFromCart(t *testing.T) {
	items := orderItemsFromCart([]domain.CartItem{
		{VariantID: 7, ProductName: "Tee", SizeName: "M", Color: "black", Quantity: 2, PriceAtTime: 179100},
	})

	assert.Len(t, items, 1)
	assert.Equal(t, domain.OrderItem{
		VariantID:   7,
		ProductName: "Tee",
		SizeName:    "M",
		Color:       "black",
		Quantity:    2,
		Price:       179100,
	}, items[0])
}

package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name            string
	Price           int64
	DiscountPercent int
	Variants        []variantSeed
}

type variantSeed struct {
	SizeName string
	Color    string
	Quantity int
	SKU      string
}

type voucherSeed struct {
	Code           string
	Description    string
	DiscountType   string
	DiscountAmount int64
	MinOrder       int64
	Quantity       int
	UsageLimit     int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	sizes := []string{"S", "M", "L", "XL"}
	for _, s := range sizes {
		if _, err := pool.Exec(ctx, `
INSERT INTO sizes (size_name) VALUES ($1)
ON CONFLICT (size_name) DO NOTHING
`, s); err != nil {
			return fmt.Errorf("ensure size %s: %w", s, err)
		}
	}

	products := []productSeed{
		{
			Name:            "Excool Crew Neck Tee",
			Price:           199000,
			DiscountPercent: 10,
			Variants: []variantSeed{
				{SizeName: "M", Color: "black", Quantity: 50, SKU: "TEE-BLK-M"},
				{SizeName: "L", Color: "black", Quantity: 30, SKU: "TEE-BLK-L"},
				{SizeName: "M", Color: "white", Quantity: 25, SKU: "TEE-WHT-M"},
			},
		},
		{
			Name:  "Daily Short 7in",
			Price: 259000,
			Variants: []variantSeed{
				{SizeName: "S", Color: "navy", Quantity: 40, SKU: "SHT-NVY-S"},
				{SizeName: "M", Color: "navy", Quantity: 40, SKU: "SHT-NVY-M"},
				{SizeName: "XL", Color: "grey", Quantity: 10, SKU: "SHT-GRY-XL"},
			},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	vouchers := []voucherSeed{
		{
			Code:           "SAVE10",
			Description:    "10% off orders of 100k or more",
			DiscountType:   "PERCENT",
			DiscountAmount: 10,
			MinOrder:       100000,
			Quantity:       100,
			UsageLimit:     100,
		},
		{
			Code:           "WELCOME30K",
			Description:    "30k off your first order",
			DiscountType:   "AMOUNT",
			DiscountAmount: 30000,
			MinOrder:       0,
			Quantity:       500,
			UsageLimit:     500,
		},
	}

	for _, v := range vouchers {
		if err := upsertVoucher(ctx, pool, v); err != nil {
			return fmt.Errorf("upsert voucher %s: %w", v.Code, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	// Seed products have no natural key beyond the name.
	var productID int64
	err := pool.QueryRow(ctx, `
SELECT id FROM products WHERE name = $1
`, p.Name).Scan(&productID)
	if err != nil {
		err = pool.QueryRow(ctx, `
INSERT INTO products (name, price, discount_percent)
VALUES ($1, $2, $3)
RETURNING id
`, p.Name, p.Price, p.DiscountPercent).Scan(&productID)
		if err != nil {
			return err
		}
	}

	for _, v := range p.Variants {
		if _, err := pool.Exec(ctx, `
INSERT INTO product_variants (product_id, size_id, color, quantity, sku)
SELECT $1, s.id, $3, $4, $5
FROM sizes s
WHERE s.size_name = $2
ON CONFLICT (product_id, size_id, color) DO UPDATE
SET quantity = EXCLUDED.quantity,
    sku = EXCLUDED.sku
`, productID, v.SizeName, v.Color, v.Quantity, v.SKU); err != nil {
			return err
		}
	}
	return nil
}

func upsertVoucher(ctx context.Context, pool *pgxpool.Pool, v voucherSeed) error {
	_, err := pool.Exec(ctx, `
INSERT INTO vouchers (code, description, discount_type, discount_amount, min_order, quantity, usage_limit, start_date, end_date, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, now()::date, (now() + interval '90 days')::date, 1)
ON CONFLICT (code) DO UPDATE
SET description = EXCLUDED.description,
    discount_type = EXCLUDED.discount_type,
    discount_amount = EXCLUDED.discount_amount,
    min_order = EXCLUDED.min_order
`, v.Code, v.Description, v.DiscountType, v.DiscountAmount, v.MinOrder, v.Quantity, v.UsageLimit)
	return err
}

package domain

import "time"

type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Price           int64     `json:"price"`
	DiscountPercent int       `json:"discountPercent"`
	CreatedAt       time.Time `json:"createdAt"`
}

// EffectivePrice is the list price reduced by the product's active discount
// percentage, rounded half-up to a whole currency unit. Captured on cart
// items at add time.
func (p Product) EffectivePrice() int64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	return (p.Price*int64(100-p.DiscountPercent) + 50) / 100
}

type Size struct {
	ID       int64  `json:"id"`
	SizeName string `json:"sizeName"`
}

// Variant is the stock-keeping unit: one product in one size and color.
// Quantity is the single source of truth for stock.
type Variant struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	SizeID      int64  `json:"sizeId"`
	SizeName    string `json:"sizeName"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	SKU         string `json:"sku,omitempty"`
}

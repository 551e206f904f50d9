package domain

import "time"

// Identity is the key a request resolves a cart by: an authenticated account
// id, or the opaque token a guest carries in the CART_SESSION cookie.
// Exactly one of the two is set.
type Identity struct {
	UserID     *int64
	GuestToken string
}

func (i Identity) Authenticated() bool {
	return i.UserID != nil
}

type Cart struct {
	ID           int64      `json:"id"`
	UserID       *int64     `json:"userId,omitempty"`
	SessionToken *string    `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Items        []CartItem `json:"items,omitempty"`
}

// CountItems sums quantities across all line items.
func (c Cart) CountItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of unit price at add time times quantity.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.PriceAtTime * int64(item.Quantity)
	}
	return total
}

type CartItem struct {
	ID          int64     `json:"id"`
	CartID      int64     `json:"cartId"`
	VariantID   int64     `json:"variantId"`
	ProductName string    `json:"productName"`
	SizeName    string    `json:"sizeName"`
	Color       string    `json:"color"`
	Quantity    int       `json:"quantity"`
	PriceAtTime int64     `json:"priceAtTime"`
	CreatedAt   time.Time `json:"createdAt"`
}

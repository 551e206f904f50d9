package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// CanTransitionTo enforces the order lifecycle:
// PENDING → PROCESSING → SHIPPED → DELIVERED, with cancellation allowed from
// PENDING and PROCESSING. DELIVERED and CANCELLED are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}

func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(raw), true
	}
	return "", false
}

// Order is an immutable snapshot taken at checkout; only Status changes
// afterwards.
type Order struct {
	ID              int64       `json:"id"`
	OrderCode       string      `json:"orderCode"`
	UserID          *int64      `json:"userId,omitempty"`
	RecipientName   string      `json:"recipientName"`
	RecipientPhone  string      `json:"recipientPhone"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Note            string      `json:"note,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
	VoucherID       *int64      `json:"voucherId,omitempty"`
	Subtotal        int64       `json:"subtotal"`
	DiscountAmount  int64       `json:"discountAmount"`
	Total           int64       `json:"total"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	Items           []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"orderId"`
	VariantID   int64  `json:"variantId"`
	ProductName string `json:"productName"`
	SizeName    string `json:"sizeName"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

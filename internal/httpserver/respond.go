package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	vouchersvc "storefront/internal/service/voucher"
)

// respondError maps business errors to their status and message; anything
// else is an infrastructure failure that gets logged and hidden behind a
// generic 500.
func (h *handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isBusinessError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Printf("http: %s %s error=%v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrCartEmpty,
		domain.ErrVariantUnavailable,
		domain.ErrInsufficientStock,
		domain.ErrVoucherNotFound,
		domain.ErrVoucherExpired,
		domain.ErrVoucherExhausted,
		domain.ErrVoucherMinOrderNotMet,
		domain.ErrInvalidStatusTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type checkoutRequest struct {
	RecipientName   string `json:"recipientName"`
	Phone           string `json:"phone"`
	DeliveryAddress string `json:"deliveryAddress"`
	Notes           string `json:"notes"`
	PaymentMethod   string `json:"paymentMethod"`
	VoucherCode     string `json:"voucherCode"`
	// DiscountHint is advisory only; the server recomputes the discount.
	DiscountHint int64 `json:"discountAmount"`
}

type voucherCheckResponse struct {
	Valid            bool   `json:"valid"`
	Code             string `json:"code,omitempty"`
	ComputedDiscount int64  `json:"computedDiscount"`
	Message          string `json:"message"`
}

type cartResponse struct {
	ID       int64             `json:"id"`
	Items    []domain.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal int64             `json:"subtotal"`
}

func toCartResponse(cart domain.Cart) cartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{
		ID:       cart.ID,
		Items:    items,
		Count:    cart.CountItems(),
		Subtotal: cart.Subtotal(),
	}
}

type orderResponse struct {
	ID              int64              `json:"id"`
	OrderCode       string             `json:"orderCode"`
	RecipientName   string             `json:"recipientName"`
	RecipientPhone  string             `json:"recipientPhone"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Note            string             `json:"note,omitempty"`
	PaymentMethod   string             `json:"paymentMethod"`
	Subtotal        int64              `json:"subtotal"`
	DiscountAmount  int64              `json:"discountAmount"`
	Total           int64              `json:"total"`
	Status          domain.OrderStatus `json:"status"`
	Items           []domain.OrderItem `json:"items"`
}

func toOrderResponse(o domain.Order) orderResponse {
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	return orderResponse{
		ID:              o.ID,
		OrderCode:       o.OrderCode,
		RecipientName:   o.RecipientName,
		RecipientPhone:  o.RecipientPhone,
		DeliveryAddress: o.DeliveryAddress,
		Note:            o.Note,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		DiscountAmount:  o.DiscountAmount,
		Total:           o.Total,
		Status:          o.Status,
		Items:           items,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderResponse(o))
	}
	return result
}

func discountFor(v *domain.Voucher, subtotal int64) int64 {
	return vouchersvc.CalculateDiscount(v, subtotal)
}

package httpserver

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
)

type identityResolver interface {
	Resolve(ctx context.Context, id domain.Identity) (*domain.Cart, string, error)
}

type cartService interface {
	Get(ctx context.Context, cartID int64) (*domain.Cart, error)
	Add(ctx context.Context, cartID int64, in cartsvc.AddInput) error
	Remove(ctx context.Context, cartID, itemID int64) error
	UpdateQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
	Count(ctx context.Context, cartID int64) (int, error)
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, in checkoutsvc.Input) (*domain.Order, error)
}

type voucherService interface {
	Validate(ctx context.Context, code string, subtotal int64) (*domain.Voucher, error)
	ListAvailable(ctx context.Context) ([]domain.Voucher, error)
}

type orderService interface {
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	List(ctx context.Context, statusFilter string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, next domain.OrderStatus) error
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}

// cartCookieName is the cookie carrying the guest cart token.
const cartCookieName = "CART_SESSION"

// identityFromRequest extracts the caller's cart identity. Authentication is
// handled upstream; a verified account id arrives as the X-User-ID header.
// Guests are identified by the CART_SESSION cookie when present.
func identityFromRequest(c *gin.Context) domain.Identity {
	if raw := c.GetHeader("X-User-ID"); raw != "" {
		if userID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return domain.Identity{UserID: &userID}
		}
	}
	if token, err := c.Cookie(cartCookieName); err == nil {
		return domain.Identity{GuestToken: token}
	}
	return domain.Identity{}
}

// resolveCart maps the request to its one cart, setting the guest cookie
// when a fresh token was minted.
func (h *handlers) resolveCart(c *gin.Context) (*domain.Cart, error) {
	cart, issuedToken, err := h.deps.Identity.Resolve(c.Request.Context(), identityFromRequest(c))
	if err != nil {
		return nil, err
	}
	if issuedToken != "" {
		maxAge := int(h.deps.CartCookieTTL.Seconds())
		c.SetCookie(cartCookieName, issuedToken, maxAge, "/", "", false, true)
	}
	return cart, nil
}

func (h *handlers) userIDFromRequest(c *gin.Context) *int64 {
	return identityFromRequest(c).UserID
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.resolveCart(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

func (h *handlers) countCart(c *gin.Context) {
	cart, err := h.resolveCart(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": cart.CountItems()})
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req cartsvc.AddInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.deps.CartSvc.Add(c.Request.Context(), cart.ID, req); err != nil {
		h.respondError(c, err)
		return
	}

	count, err := h.deps.CartSvc.Count(c.Request.Context(), cart.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *handlers) updateCartItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), cart.ID, itemID, req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.deps.CartSvc.Remove(c.Request.Context(), cart.ID, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) placeOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.RecipientName == "" || req.Phone == "" || req.DeliveryAddress == "" || req.PaymentMethod == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient name, phone, address and payment method are required"})
		return
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// req.DiscountHint is deliberately unused: the discount is recomputed
	// server-side from the voucher code.
	order, err := h.deps.CheckoutSvc.PlaceOrder(c.Request.Context(), checkoutsvc.Input{
		CartID:          cart.ID,
		UserID:          h.userIDFromRequest(c),
		RecipientName:   req.RecipientName,
		RecipientPhone:  req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		Note:            req.Notes,
		PaymentMethod:   req.PaymentMethod,
		VoucherCode:     req.VoucherCode,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

func (h *handlers) checkVoucher(c *gin.Context) {
	code := c.Query("code")
	subtotal, err := strconv.ParseInt(c.Query("subtotal"), 10, 64)
	if err != nil || subtotal < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtotal"})
		return
	}

	voucher, err := h.deps.VoucherSvc.Validate(c.Request.Context(), code, subtotal)
	if err != nil {
		if isBusinessError(err) {
			c.JSON(http.StatusOK, voucherCheckResponse{Valid: false, Message: err.Error()})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, voucherCheckResponse{
		Valid:            true,
		Code:             voucher.Code,
		ComputedDiscount: discountFor(voucher, subtotal),
		Message:          "voucher applied",
	})
}

func (h *handlers) listVouchers(c *gin.Context) {
	vouchers, err := h.deps.VoucherSvc.ListAvailable(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
}

func (h *handlers) getOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.deps.OrderSvc.Get(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func (h *handlers) listOrders(c *gin.Context) {
	// An authenticated caller gets their own purchase history; the status
	// filter serves the admin listing.
	if userID := h.userIDFromRequest(c); userID != nil {
		orders, err := h.deps.OrderSvc.ListByUser(c.Request.Context(), *userID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
		return
	}

	orders, err := h.deps.OrderSvc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	if err := h.deps.OrderSvc.UpdateStatus(c.Request.Context(), orderID, status); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

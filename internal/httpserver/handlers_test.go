package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
)

type stubIdentity struct {
	cart        *domain.Cart
	issuedToken string
	err         error
	lastID      domain.Identity
}

func (s *stubIdentity) Resolve(_ context.Context, id domain.Identity) (*domain.Cart, string, error) {
	s.lastID = id
	return s.cart, s.issuedToken, s.err
}

type stubCartService struct {
	cart      *domain.Cart
	count     int
	addErr    error
	removeErr error
	updateErr error
	lastAdd   cartsvc.AddInput
}

func (s *stubCartService) Get(_ context.Context, _ int64) (*domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) Add(_ context.Context, _ int64, in cartsvc.AddInput) error {
	s.lastAdd = in
	return s.addErr
}

func (s *stubCartService) Remove(_ context.Context, _, _ int64) error {
	return s.removeErr
}

func (s *stubCartService) UpdateQuantity(_ context.Context, _, _ int64, _ int) error {
	return s.updateErr
}

func (s *stubCartService) Count(_ context.Context, _ int64) (int, error) {
	return s.count, nil
}

type stubCheckoutService struct {
	order     *domain.Order
	err       error
	lastInput checkoutsvc.Input
}

func (s *stubCheckoutService) PlaceOrder(_ context.Context, in checkoutsvc.Input) (*domain.Order, error) {
	s.lastInput = in
	return s.order, s.err
}

type stubVoucherService struct {
	voucher  *domain.Voucher
	err      error
	vouchers []domain.Voucher
}

func (s *stubVoucherService) Validate(_ context.Context, _ string, _ int64) (*domain.Voucher, error) {
	return s.voucher, s.err
}

func (s *stubVoucherService) ListAvailable(_ context.Context) ([]domain.Voucher, error) {
	return s.vouchers, s.err
}

type stubOrderService struct {
	order           *domain.Order
	orders          []domain.Order
	getErr          error
	updateErr       error
	listByUserCalls int
	lastUserID      int64
	lastFilter      string
	lastStatus      domain.OrderStatus
}

func (s *stubOrderService) Get(_ context.Context, _ int64) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderService) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	s.listByUserCalls++
	s.lastUserID = userID
	return s.orders, nil
}

func (s *stubOrderService) List(_ context.Context, statusFilter string) ([]domain.Order, error) {
	s.lastFilter = statusFilter
	return s.orders, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _ int64, next domain.OrderStatus) error {
	s.lastStatus = next
	return s.updateErr
}

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testDeps(identity *stubIdentity, cart *stubCartService, checkout *stubCheckoutService, voucher *stubVoucherService, order *stubOrderService) Deps {
	if identity == nil {
		identity = &stubIdentity{cart: &domain.Cart{ID: 1}}
	}
	if cart == nil {
		cart = &stubCartService{}
	}
	if checkout == nil {
		checkout = &stubCheckoutService{}
	}
	if voucher == nil {
		voucher = &stubVoucherService{}
	}
	if order == nil {
		order = &stubOrderService{}
	}
	return Deps{
		Identity:      identity,
		CartSvc:       cart,
		CheckoutSvc:   checkout,
		VoucherSvc:    voucher,
		OrderSvc:      order,
		CartCookieTTL: 7 * 24 * time.Hour,
	}
}

func TestGetCart_IssuesGuestCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	identity := &stubIdentity{cart: &domain.Cart{ID: 1}, issuedToken: "fresh-token"}
	router := buildRouter(logDiscard(), nil, testDeps(identity, nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := findCookie(rec.Result().Cookies(), cartCookieName)
	if cookie == nil {
		t.Fatalf("expected %s cookie to be set", cartCookieName)
	}
	if cookie.Value != "fresh-token" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie %+v", cookie)
	}
	if cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Fatalf("unexpected cookie max-age %d", cookie.MaxAge)
	}
}

func TestGetCart_ReusesPresentedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	identity := &stubIdentity{cart: &domain.Cart{ID: 1}}
	router := buildRouter(logDiscard(), nil, testDeps(identity, nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: cartCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if identity.lastID.GuestToken != "existing" {
		t.Fatalf("expected cookie token to reach the resolver, got %+v", identity.lastID)
	}
	if cookie := findCookie(rec.Result().Cookies(), cartCookieName); cookie != nil {
		t.Fatalf("expected no new cookie, got %+v", cookie)
	}
}

func TestGetCart_HeaderWinsOverCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	identity := &stubIdentity{cart: &domain.Cart{ID: 1}}
	router := buildRouter(logDiscard(), nil, testDeps(identity, nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User-ID", "42")
	req.AddCookie(&http.Cookie{Name: cartCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if identity.lastID.UserID == nil || *identity.lastID.UserID != 42 {
		t.Fatalf("expected user identity, got %+v", identity.lastID)
	}
	if identity.lastID.GuestToken != "" {
		t.Fatalf("expected guest token to be ignored for authenticated caller")
	}
}

func TestAddCartItem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cart := &stubCartService{count: 3}
	router := buildRouter(logDiscard(), nil, testDeps(nil, cart, nil, nil, nil))

	body := `{"productId":5,"quantity":2,"sizeName":"M","color":"black"}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cart.lastAdd.ProductID != 5 || cart.lastAdd.Quantity != 2 || cart.lastAdd.SizeName != "M" {
		t.Fatalf("unexpected add input %+v", cart.lastAdd)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("expected count 3, got %d", resp.Count)
	}
}

func TestAddCartItem_InsufficientStock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cart := &stubCartService{addErr: domain.ErrInsufficientStock}
	router := buildRouter(logDiscard(), nil, testDeps(nil, cart, nil, nil, nil))

	body := `{"productId":5,"quantity":99,"sizeName":"M","color":"black"}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRemoveCartItem_ForeignItem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cart := &stubCartService{removeErr: domain.ErrNotAuthorized}
	router := buildRouter(logDiscard(), nil, testDeps(nil, cart, nil, nil, nil))

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Another cart's line is reported as missing, not forbidden.
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateCartItem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodPatch, "/cart/items/9", strings.NewReader(`{"quantity":4}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestPlaceOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	checkout := &stubCheckoutService{order: &domain.Order{
		ID:        1,
		OrderCode: "CM2603151234",
		Status:    domain.StatusPending,
		Total:     322380,
	}}
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, checkout, nil, nil))

	body := `{
		"recipientName": "Alex Tran",
		"phone": "0900000000",
		"deliveryAddress": "12 Market St",
		"paymentMethod": "COD",
		"voucherCode": "SAVE10",
		"discountAmount": 999999
	}`
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if checkout.lastInput.VoucherCode != "SAVE10" || checkout.lastInput.RecipientName != "Alex Tran" {
		t.Fatalf("unexpected input %+v", checkout.lastInput)
	}

	var resp struct {
		OrderCode string `json:"orderCode"`
		Total     int64  `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// The client's discountAmount figure has no effect on the result.
	if resp.OrderCode != "CM2603151234" || resp.Total != 322380 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPlaceOrder_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"recipientName":"Alex"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	checkout := &stubCheckoutService{err: domain.ErrCartEmpty}
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, checkout, nil, nil))

	body := `{"recipientName":"Alex","phone":"09","deliveryAddress":"St","paymentMethod":"COD"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckVoucher_Valid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	voucher := &stubVoucherService{voucher: &domain.Voucher{
		Code:           "SAVE10",
		DiscountType:   domain.DiscountPercent,
		DiscountAmount: 10,
	}}
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, voucher, nil))

	req := httptest.NewRequest(http.MethodGet, "/voucher/check?code=SAVE10&subtotal=200000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp voucherCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Valid || resp.ComputedDiscount != 20000 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestCheckVoucher_BusinessFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	voucher := &stubVoucherService{err: domain.ErrVoucherMinOrderNotMet}
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, voucher, nil))

	req := httptest.NewRequest(http.MethodGet, "/voucher/check?code=SAVE10&subtotal=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Business failures are a valid answer, not an error.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp voucherCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid || resp.Message == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestCheckVoucher_BadSubtotal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/voucher/check?code=SAVE10&subtotal=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListOrders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	order := &stubOrderService{orders: []domain.Order{{ID: 1, OrderCode: "CM2603150001"}}}
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, nil, order))

	// Authenticated callers get their own history.
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("X-User-ID", "42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if order.listByUserCalls != 1 || order.lastUserID != 42 {
		t.Fatalf("expected ListByUser(42), got calls=%d id=%d", order.listByUserCalls, order.lastUserID)
	}

	// Anonymous callers hit the admin listing with the status filter.
	req = httptest.NewRequest(http.MethodGet, "/orders?status=PENDING", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if order.lastFilter != "PENDING" {
		t.Fatalf("expected PENDING filter, got %q", order.lastFilter)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	order := &stubOrderService{getErr: domain.ErrOrderNotFound}
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, nil, order))

	req := httptest.NewRequest(http.MethodGet, "/orders/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	order := &stubOrderService{}
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, nil, order))

	req := httptest.NewRequest(http.MethodPatch, "/orders/1/status", strings.NewReader(`{"status":"PROCESSING"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if order.lastStatus != domain.StatusProcessing {
		t.Fatalf("expected PROCESSING, got %s", order.lastStatus)
	}
}

func TestUpdateOrderStatus_Rejections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	order := &stubOrderService{updateErr: domain.ErrInvalidStatusTransition}
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, nil, order))

	req := httptest.NewRequest(http.MethodPatch, "/orders/1/status", strings.NewReader(`{"status":"RETURNED"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/orders/1/status", strings.NewReader(`{"status":"DELIVERED"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid transition, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, testDeps(nil, nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

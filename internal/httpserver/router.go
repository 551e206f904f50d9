package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the explicitly wired services the routes depend on.
type Deps struct {
	Identity    identityResolver
	CartSvc     cartService
	CheckoutSvc checkoutService
	VoucherSvc  voucherService
	OrderSvc    orderService
	// CartCookieTTL controls the CART_SESSION cookie max-age.
	CartCookieTTL time.Duration
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-User-ID")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	cart := router.Group("/cart")
	{
		cart.GET("", h.getCart)
		cart.GET("/count", h.countCart)
		cart.POST("/items", h.addCartItem)
		cart.PATCH("/items/:itemID", h.updateCartItem)
		cart.DELETE("/items/:itemID", h.removeCartItem)
	}

	router.POST("/checkout", h.placeOrder)
	router.GET("/voucher/check", h.checkVoucher)
	router.GET("/vouchers", h.listVouchers)

	orders := router.Group("/orders")
	{
		orders.GET("", h.listOrders)
		orders.GET("/:orderID", h.getOrder)
		orders.PATCH("/:orderID/status", h.updateOrderStatus)
	}

	return router
}

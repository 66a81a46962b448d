// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"loyalty/internal/handlers"
	"loyalty/internal/middleware"
	"loyalty/internal/models"
	"loyalty/internal/services/coupon"
	"loyalty/internal/services/payment"
	"loyalty/internal/services/redemption"
	"loyalty/internal/services/stats"
	"loyalty/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Wallet     wallet.Service
	Coupon     coupon.Service
	Redemption redemption.Service
	Payment    payment.Service
	Stats      stats.Service
	Health     *handlers.HealthHandler
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, svc Services, auth *middleware.AuthMiddleware) {
	walletHandler := handlers.NewWalletHandler(svc.Wallet)
	couponHandler := handlers.NewCouponHandler(svc.Coupon)
	redemptionHandler := handlers.NewRedemptionHandler(svc.Redemption, svc.Coupon)
	paymentHandler := handlers.NewPaymentHandler(svc.Payment)
	statsHandler := handlers.NewStatsHandler(svc.Stats)

	if svc.Health != nil {
		app.Get("/health", svc.Health.HealthCheck)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1", auth.Handler)
	merchantOnly := middleware.MerchantOnly

	// Wallet routes
	w := api.Group("/wallet")
	w.Post("/", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.CreateWallet)
	w.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)
	w.Get("/balance", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetBalance)
	w.Get("/transactions", middleware.HasPermission(models.PermissionWalletRead), walletHandler.ListTransactions)
	w.Post("/debit", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Debit)
	w.Post("/credit", middleware.AdminOnly, middleware.HasPermission(models.PermissionWalletCredit), walletHandler.Credit)

	// Coupon routes
	c := api.Group("/coupons")
	c.Get("/active", couponHandler.ListActive)
	c.Get("/mine", merchantOnly, couponHandler.ListMine)
	c.Get("/code/:code", couponHandler.GetCouponByCode)
	c.Get("/category/:category", couponHandler.ListByCategory)
	c.Get("/merchant/:merchantID", couponHandler.ListByMerchant)
	c.Get("/:id", couponHandler.GetCoupon)
	c.Post("/", merchantOnly, middleware.HasPermission(models.PermissionCouponManage), couponHandler.CreateCoupon)
	c.Patch("/:id/active", merchantOnly, middleware.HasPermission(models.PermissionCouponManage), couponHandler.SetActive)
	c.Get("/:id/redemptions", merchantOnly, middleware.HasPermission(models.PermissionRedemptionManage), redemptionHandler.ListByCoupon)

	// Redemption routes
	r := api.Group("/redemptions")
	r.Post("/", middleware.HasPermission(models.PermissionCouponRedeem), redemptionHandler.Redeem)
	r.Get("/", redemptionHandler.ListMine)
	r.Get("/:id", redemptionHandler.GetRedemption)
	r.Patch("/:id/status", merchantOnly, middleware.HasPermission(models.PermissionRedemptionManage), redemptionHandler.UpdateStatus)

	// Payment routes
	p := api.Group("/payments")
	p.Post("/", middleware.HasPermission(models.PermissionPaymentWrite), paymentHandler.Pay)
	p.Get("/", paymentHandler.ListMine)
	p.Get("/merchant", merchantOnly, paymentHandler.ListMerchant)
	p.Get("/:id", paymentHandler.GetPayment)
	p.Post("/:id/reverse", merchantOnly, middleware.HasPermission(models.PermissionPaymentReverse), paymentHandler.Reverse)

	// Stats routes
	s := api.Group("/stats", middleware.HasPermission(models.PermissionStatsRead))
	s.Get("/me", statsHandler.UserStats)
	s.Get("/merchant", merchantOnly, statsHandler.MerchantStats)
}

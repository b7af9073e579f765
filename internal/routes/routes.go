package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/kiri/internal/config"
	"github.com/example/kiri/internal/delivery"
	"github.com/example/kiri/internal/handlers"
	"github.com/example/kiri/internal/middleware"
	"github.com/example/kiri/internal/services"
	"github.com/example/kiri/internal/session"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, sess *session.Store, cfg *config.Config) {
	// Initialize Telegram service
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	abaClient := services.NewABAClient(cfg.PayWayBaseURL, cfg.PayWayMerchantID, cfg.PayWayAPIKey)
	poller := services.NewStatusPoller(abaClient.PaymentStatus, cfg.PollInterval, cfg.PollMaxAttempts)
	quoter := delivery.NewQuoter(cfg.FeeStrategy, cfg.WarehouseLat, cfg.WarehouseLng)

	sessionHandler := handlers.NewSessionHandler(cfg)
	productHandler := handlers.NewProductHandler(db)
	geoHandler := handlers.NewGeoHandler()
	deliveryHandler := handlers.NewDeliveryHandler(quoter)
	cartHandler := handlers.NewCartHandler(sess)
	checkoutHandler := handlers.NewCheckoutHandler(sess, quoter)
	paymentHandler := handlers.NewPaymentHandler(db, sess, quoter, abaClient, poller, telegramService)
	orderHandler := handlers.NewOrderHandler(db, sess)

	api := app.Group("/api")

	// Session bootstrap
	api.Post("/session", sessionHandler.Create)

	// Catalog
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:code", productHandler.Get)

	// Geo reference data
	geo := api.Group("/geo")
	geo.Get("/provinces", geoHandler.Provinces)
	geo.Get("/districts", geoHandler.Districts)
	geo.Get("/communes", geoHandler.Communes)
	geo.Get("/villages", geoHandler.Villages)

	// Delivery quotes
	api.Get("/delivery/quote", deliveryHandler.Quote)

	// PayWay server-to-server callback
	api.Post("/payway/callback", middleware.PayWayAuthMiddleware(cfg.PayWayMerchantID, cfg.PayWayAPIKey), paymentHandler.Callback)

	// Session-scoped routes
	protected := api.Group("/", middleware.SessionMiddleware(cfg))

	cart := protected.Group("/cart")
	cart.Get("/", cartHandler.Get)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items", cartHandler.UpdateQty)
	cart.Delete("/items", cartHandler.RemoveItem)
	cart.Delete("/", cartHandler.Clear)

	checkout := protected.Group("/checkout")
	checkout.Get("/", checkoutHandler.State)
	checkout.Post("/info", checkoutHandler.SubmitInfo)
	checkout.Post("/items", checkoutHandler.SubmitItems)
	checkout.Post("/back", checkoutHandler.Back)
	checkout.Post("/payment", paymentHandler.RequestPayment)
	checkout.Post("/confirm", paymentHandler.Confirm)

	protected.Get("/payments/:id/status", paymentHandler.Status)

	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/receipt", orderHandler.LatestReceipt)
	protected.Get("/receipts", orderHandler.ListReceipts)
}

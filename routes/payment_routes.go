package routes

import (
	"github.com/avinash2305/wellness_platform/handlers"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)

	// Verification is authenticated by the gateway signature itself, so
	// anonymous donors can confirm their checkout too.
	api.Post("/payments/verify", handlers.VerifyPayment)
}

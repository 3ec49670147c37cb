package routes

import (
	"github.com/avinash2305/wellness_platform/handlers"
	"github.com/gofiber/fiber/v2"
)

func DonationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	donations := api.Group("/donations")
	donations.Post("", handlers.CreateDonation)
	donations.Get("/:donationId/receipt", handlers.GetDonationReceipt)
}

package routes

import (
	"github.com/avinash2305/wellness_platform/handlers"
	"github.com/avinash2305/wellness_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)

	admin.Get("/bookings", handlers.AdminGetAllBookings)
	admin.Get("/payments", handlers.AdminGetPayments)
	admin.Get("/donations", handlers.AdminGetDonations)
	admin.Post("/donations/:donationId/receipt", handlers.AdminRegenerateReceipt)

	reviews := admin.Group("/reviews")
	reviews.Get("", handlers.AdminGetReviews)
	reviews.Delete("/:reviewId", handlers.AdminDeleteReview)

	reports := admin.Group("/reports")
	reports.Get("/transactions", handlers.GenerateTransactionReport)
}

package routes

import (
	"github.com/avinash2305/wellness_platform/handlers"
	"github.com/avinash2305/wellness_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Post("/:bookingId/pay", handlers.PayBooking)
	booking.Post("/:bookingId/cancel", handlers.CancelBooking)
	booking.Get("/:bookingId/installments", handlers.GetInstallments)
	booking.Post("/:bookingId/installments/pay", handlers.PayInstallment)
}

package routes

import (
	"github.com/avinash2305/wellness_platform/handlers"
	"github.com/avinash2305/wellness_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions")
	sessions.Get("", handlers.ListSessions)
	sessions.Get("/:sessionId", handlers.GetSession)
	sessions.Get("/:sessionId/reviews", handlers.GetSessionReviews)
	sessions.Post("/:sessionId/reviews", middleware.Protected(), handlers.CreateReview)

	adminSessions := api.Group("/admin/sessions", middleware.Protected(), middleware.AdminRequired())
	adminSessions.Post("", handlers.CreateSession)
	adminSessions.Put("/:sessionId", handlers.UpdateSession)
	adminSessions.Post("/:sessionId/cancel", handlers.CancelSession)
	adminSessions.Delete("/:sessionId", handlers.DeleteSession)
}

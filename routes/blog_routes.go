package routes

import (
	"github.com/avinash2305/wellness_platform/handlers"
	"github.com/avinash2305/wellness_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func BlogRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	blogs := api.Group("/blogs")
	blogs.Get("", handlers.ListBlogs)
	blogs.Get("/:slug", handlers.GetBlogBySlug)

	adminBlogs := api.Group("/admin/blogs", middleware.Protected(), middleware.AdminRequired())
	adminBlogs.Post("", handlers.AdminCreateBlog)
	adminBlogs.Put("/:blogId", handlers.AdminUpdateBlog)
	adminBlogs.Delete("/:blogId", handlers.AdminDeleteBlog)
}

package main

import (
	"log"
	"time"

	"github.com/avinash2305/wellness_platform/configs"
	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/handlers"
	"github.com/avinash2305/wellness_platform/jobs"
	"github.com/avinash2305/wellness_platform/monitoring"
	"github.com/avinash2305/wellness_platform/notifications"
	"github.com/avinash2305/wellness_platform/routes"
	"github.com/avinash2305/wellness_platform/services"
	"github.com/avinash2305/wellness_platform/utils"
	"github.com/avinash2305/wellness_platform/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	redisClient := utils.NewRedisClient(config.ConfigDefault("REDIS_URL", "redis://localhost:6379"))
	handlers.OTP = services.NewOTPService(redisClient)

	c := cron.New()
	c.AddFunc("* * * * *", jobs.TransitionSessionStatuses)
	c.AddFunc("*/5 * * * *", jobs.SendSessionReminders)
	c.AddFunc("0 9 * * *", jobs.CheckInstallmentDues)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Wellness Platform",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Kolkata",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(monitoring.Middleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Wellness Platform API",
		})
	})

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.SessionRoutes(app)
	routes.BookingRoutes(app)
	routes.PaymentRoutes(app)
	routes.BlogRoutes(app)
	routes.DonationRoutes(app)
	routes.UploadRoutes(app)
	routes.AdminRoutes(app)
	routes.WebsocketRoutes(app)

	go websocket.RunHub()

	app.Get("/metrics", monitoring.Handler())
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := utils.RedisHealthCheck(redisClient); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
				"redis":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

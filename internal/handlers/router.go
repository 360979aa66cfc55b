package handlers

import (
	"fleetdeck/internal/app"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api", app.Middleware.TraceID())
	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewBookingHandler(*app, api).Register()
	NewCalendarHandler(*app, api).Register()
	NewRepairHandler(*app, api).Register()
	NewInvoiceHandler(*app, api).Register()
	NewChatHandler(*app, api).Register()
	NewNotificationHandler(*app, api).Register()
	NewDocumentHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewYachtHandler(*app, api).Register()
	NewActivityHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// Package httpapi assembles the fiber application: middleware, routes and
// the JSON error surface.
package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"vibecommerce/internal/config"
	"vibecommerce/internal/http/handlers"
	applog "vibecommerce/internal/log"
	"vibecommerce/internal/pricing"
	"vibecommerce/web"
)

const (
	loginAttempts = 10
	loginWindow   = 10 * time.Minute
)

// New builds the app. Logging of each request goes through fiber's logger
// middleware; application events go through applog.
func New(cfg config.Config, deps *handlers.Deps) *fiber.App {
	engine := html.NewFileSystem(web.Templates(), ".html")
	engine.AddFunc("price", pricing.FormatPrice)

	app := fiber.New(fiber.Config{
		AppName:      "vibecommerce",
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/healthz"
			},
			LimitReached: tooMany("rate.global.hit"),
		}))
	}
	app.Use(handlers.Session(deps.Auth))

	// ---------- Routes ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Vibe Commerce API"})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:          loginAttempts,
		Expiration:   loginWindow,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() + "|login" },
		LimitReached: tooMany("rate.login.hit"),
	}), deps.AuthHandler.Login)
	auth.Post("/reset-password", deps.AuthHandler.ResetPassword)
	auth.Post("/logout", handlers.RequireUser(), deps.AuthHandler.Logout)
	auth.Get("/me", handlers.RequireUser(), deps.AuthHandler.Me)

	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/categories", deps.CategoryHandler.List)
	products.Get("/:id", deps.ProductHandler.Detail)
	products.Get("/:id/availability", deps.InventoryHandler.Check)

	cart := api.Group("/cart")
	cart.Post("/", deps.CartHandler.Add)
	cart.Get("/", deps.CartHandler.View)
	cart.Put("/:id", deps.CartHandler.Update)
	cart.Delete("/:id", deps.CartHandler.Remove)

	api.Post("/checkout", deps.CheckoutHandler.Process)

	orders := api.Group("/orders")
	orders.Post("/", deps.OrderHandler.Create)
	orders.Post("/checkout", deps.OrderHandler.Place)
	orders.Get("/user/:userId", deps.OrderHandler.ListForUser)
	orders.Get("/:orderId", deps.OrderHandler.Get)
	orders.Put("/:orderId/status", handlers.RequireUser(), deps.OrderHandler.UpdateStatus)

	app.Get("/orders/:orderId/receipt", deps.ReceiptHandler.Show)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Route not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{"Message": "Page not found"})
	})
	return app
}

func tooMany(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success": false,
			"error":   "Too many requests. Please try again later.",
		})
	}
}

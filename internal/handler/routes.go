package handler

import (
	"time"

	"foodbank-inventory/internal/middleware"
	"foodbank-inventory/internal/resolver"
	"foodbank-inventory/internal/service"
	"foodbank-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type AppOptions struct {
	Name           string
	LoginRateLimit int  // requests per minute per IP; 0 disables
	RequestLog     bool // fiber access log on stdout
}

// NewApp builds the fiber app with middleware and every route mounted
func NewApp(r *resolver.Resolver, auth service.AuthService, log *logger.Logger, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ErrorHandler: ErrorHandler(log),
	})

	if opts.RequestLog {
		app.Use(fiberlogger.New())
	}
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	graphHandler := NewGraphHandler(r, log)
	authHandler := NewAuthHandler(r, log)
	invHandler := NewInventoryHandler(r, log)
	dashHandler := NewDashboardHandler(r, log)

	api := app.Group("/api/v1", middleware.Identify(auth, log))

	loginLimit := func(c *fiber.Ctx) error { return c.Next() }
	if opts.LoginRateLimit > 0 {
		loginLimit = limiter.New(limiter.Config{
			Max:        opts.LoginRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many login attempts, try again later"})
			},
		})
	}

	// Graph endpoint; auth is enforced per operation by the resolver
	api.Get("/graph", graphHandler.Operations)
	api.Post("/graph", graphHandler.Execute)

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", loginLimit, authHandler.Login)
	authGroup.Get("/me", middleware.RequireAuth(), authHandler.Me)

	api.Get("/categories", invHandler.GetCategories)
	api.Get("/categories/:id", invHandler.GetCategory)
	api.Get("/products", invHandler.GetProducts)
	api.Get("/products/:id", invHandler.GetProduct)
	api.Get("/dashboard", dashHandler.GetDashboard)
	api.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)
	api.Get("/transactions", dashHandler.GetTransactions)
	api.Get("/transactions/:id", dashHandler.GetTransaction)

	// ============ PROTECTED ROUTES ============
	// Per route, so unmatched paths under /api/v1 still fall through to 404
	requireAuth := middleware.RequireAuth()
	api.Post("/categories", requireAuth, invHandler.CreateCategory)
	api.Delete("/categories/:id", requireAuth, invHandler.DeleteCategory)
	api.Post("/products", requireAuth, invHandler.CreateProduct)
	api.Put("/products/:id", requireAuth, invHandler.UpdateProduct)
	api.Delete("/products/:id", requireAuth, invHandler.DeleteProduct)

	return app
}

package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/merchantdesk/backoffice/api-gateway/config"
	"github.com/merchantdesk/backoffice/api-gateway/health"
	"github.com/merchantdesk/backoffice/api-gateway/middleware"
	"github.com/merchantdesk/backoffice/api-gateway/proxy"
)

// RouteDefinition maps a path prefix to a backend service
type RouteDefinition struct {
	Prefix         string
	ServiceName    string
	Description    string
	RequireAuth    bool
	RequireManager bool
}

// Routes holds all route definitions. Role checks on individual operations
// live in the services; the gateway only gates whole prefixes.
var Routes = []RouteDefinition{
	{
		Prefix:      "/auth",
		ServiceName: "company",
		Description: "Authentication endpoints (login, register)",
	},
	{
		Prefix:      "/api/companies",
		ServiceName: "company",
		Description: "Company management and credit ledger",
		RequireAuth: false, // company creation is public, the rest is enforced downstream
	},
	{
		Prefix:      "/api/users",
		ServiceName: "company",
		Description: "Company user management",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/payments",
		ServiceName: "payment",
		Description: "Payments and refunds",
		RequireAuth: true,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream probes)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(healthChecker.CheckAllServices(ctx))
	})

	// Load balancer diagnostics
	app.Get("/gateway/loadbalancers", func(c *fiber.Ctx) error {
		stats := make(map[string]interface{})
		for name, lb := range reverseProxy.LoadBalancers() {
			stats[name] = lb.Stats()
		}
		return c.JSON(stats)
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Backoffice API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RequireManager {
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.ManagerMiddleware())
	} else if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	// exact prefix without a trailing path segment
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}

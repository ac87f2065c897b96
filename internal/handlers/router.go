package handlers

import (
	"crate/internal/app"
	"crate/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	MetricsHandler(router, app.Registry)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewCatalogHandler(*app, api).Register()
	NewReleaseHandler(*app, api).Register()

	return nil
}

func MetricsHandler(router fiber.Router, registry *prometheus.Registry) {
	if registry == nil {
		return
	}
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

package app

import (
	"context"
	"crate/config"
	"crate/internal/controllers"
	"crate/internal/database"
	"crate/internal/events"
	"crate/internal/handlers/middleware"
	"crate/internal/jobs"
	"crate/internal/metrics"
	"crate/internal/repositories"
	"crate/internal/services"
	"crate/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Registry    *prometheus.Registry
	Metrics     *metrics.ImportMetrics
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config)
}

// NewWithConfig wires the application around an existing config. The
// catalog-import CLI uses it to share wiring with the API server.
func NewWithConfig(config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	importMetrics, err := metrics.NewImportMetrics(registry)
	if err != nil {
		return &App{}, log.Err("failed to register import metrics", err)
	}

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db)
	services := services.New(db, config, repos, eventBus, importMetrics)
	controllers := controllers.New(services)

	if err := jobs.RegisterAllJobs(services.Scheduler, config, services.CatalogImport); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Middleware:  middleware.New(),
		Websocket:   websockets.New(eventBus, controllers.Catalog),
		EventBus:    eventBus,
		Config:      config,
		Registry:    registry,
		Metrics:     importMetrics,
		Services:    services,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Registry,
		a.Metrics,
		a.Services.Transaction,
		a.Services.CatalogImport,
		a.Services.Release,
		a.Services.Scheduler,
		a.Repos.Release,
		a.Controllers.Catalog,
		a.Controllers.Release,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

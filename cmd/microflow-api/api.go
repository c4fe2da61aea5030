// Package main provides the Microflow API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/eventbus"
	"github.com/microflowhq/microflow/pkg/persistence"
	"github.com/microflowhq/microflow/pkg/services"
	"github.com/microflowhq/microflow/pkg/validation"
	"github.com/microflowhq/microflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	repository := catalog.NewRepository(a.persistence)
	pipeline := validation.NewPipeline(validation.DefaultRuleConfig())

	validationService := services.NewValidation(pipeline, a.persistence, a.eventBus, a.logger)
	catalogService := services.NewCatalog(repository, nil, a.logger)

	handlers := web.NewAPIHandlers(validationService, catalogService, repository, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Microflow API")
	})

	app.Post("/validate", handlers.ValidateDocument)

	documents := app.Group("/documents")
	documents.Get("/", handlers.GetDocuments)
	documents.Get("/:id", handlers.GetDocument)

	app.Get("/runs", handlers.GetRuns)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}

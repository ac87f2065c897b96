package handlers

import (
	"crate/internal/app"
	catalogController "crate/internal/controllers/catalog"
	"crate/internal/services"
	"crate/internal/websockets"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type CatalogHandler struct {
	Handler
	catalogController catalogController.CatalogControllerInterface
	websocket         *websockets.Manager
}

func NewCatalogHandler(app app.App, router fiber.Router) *CatalogHandler {
	log := logger.New("handlers").File("catalog_handler")
	return &CatalogHandler{
		catalogController: app.Controllers.Catalog,
		websocket:         app.Websocket,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CatalogHandler) Register() {
	catalog := h.router.Group("/admin/catalog")

	catalog.Post("/import", h.triggerImport)
	catalog.Post("/import/batch", h.importBatch)
	catalog.Post("/upc", h.updateUpc)
	catalog.Get("/progress", h.getProgress)
	catalog.Get("/validate", h.validateLookups)

	if h.websocket != nil {
		catalog.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				c.Locals("allowed", true)
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		catalog.Get("/ws", websocket.New(func(c *websocket.Conn) {
			h.websocket.HandleWebSocket(c)
		}))
	}
}

func (h *CatalogHandler) triggerImport(c *fiber.Ctx) error {
	if err := h.catalogController.TriggerImport(c.UserContext()); err != nil {
		return h.importError(c, "Failed to start catalog import", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Catalog import started",
	})
}

func (h *CatalogHandler) importBatch(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("importBatch")

	var req catalogController.BatchImportRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	response, err := h.catalogController.ImportBatch(c.UserContext(), req)
	if err != nil {
		return h.importError(c, "Failed to import batch", err)
	}

	return c.JSON(response)
}

func (h *CatalogHandler) updateUpc(c *fiber.Ctx) error {
	response, err := h.catalogController.UpdateUpc(c.UserContext())
	if err != nil {
		return h.importError(c, "Failed to update UPC values", err)
	}

	return c.JSON(response)
}

func (h *CatalogHandler) getProgress(c *fiber.Ctx) error {
	progress, err := h.catalogController.GetProgress(c.UserContext())
	if err != nil {
		return h.importError(c, "Failed to get import progress", err)
	}

	return c.JSON(progress)
}

func (h *CatalogHandler) validateLookups(c *fiber.Ctx) error {
	validation, err := h.catalogController.ValidateLookups(c.UserContext())
	if err != nil {
		return h.importError(c, "Failed to validate lookup data", err)
	}

	return c.JSON(validation)
}

func (h *CatalogHandler) importError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrImportInProgress):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidBatchRequest),
		errors.Is(err, catalogController.ErrDatasetNotConfigured):
		status = fiber.StatusBadRequest
	default:
		h.log.Function("importError").Er(message, err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   message,
		"details": err.Error(),
	})
}

package handlers

import (
	"crate/internal/app"
	releaseController "crate/internal/controllers/releases"
	"crate/internal/services"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ReleaseHandler struct {
	Handler
	releaseController releaseController.ReleaseControllerInterface
}

func NewReleaseHandler(app app.App, router fiber.Router) *ReleaseHandler {
	log := logger.New("handlers").File("release_handler")
	return &ReleaseHandler{
		releaseController: app.Controllers.Release,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReleaseHandler) Register() {
	releases := h.router.Group("/releases")
	releases.Post("/", h.createRelease)
	releases.Post("/duplicates", h.checkDuplicates)
}

// createRelease refuses likely duplicates with 409 unless ?force=true.
func (h *ReleaseHandler) createRelease(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createRelease")

	var req services.CreateReleaseRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	release, err := h.releaseController.CreateRelease(c.UserContext(), req, c.QueryBool("force"))
	if err != nil {
		var duplicate *services.DuplicateReleaseError
		switch {
		case errors.As(err, &duplicate):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":      "Release looks like a duplicate",
				"candidates": duplicate.Candidates,
			})
		case errors.Is(err, services.ErrReleaseExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":   "Release already exists",
				"details": err.Error(),
			})
		case errors.Is(err, services.ErrInvalidRelease):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid release",
				"details": err.Error(),
			})
		}

		log.Er("failed to create release", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to create release",
			"details": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(release)
}

func (h *ReleaseHandler) checkDuplicates(c *fiber.Ctx) error {
	log := h.log.Function("checkDuplicates")

	var query services.DuplicateQuery
	if err := c.BodyParser(&query); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	response, err := h.releaseController.CheckDuplicates(c.UserContext(), query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRelease) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid duplicate query",
				"details": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to check duplicates",
			"details": err.Error(),
		})
	}

	return c.JSON(response)
}

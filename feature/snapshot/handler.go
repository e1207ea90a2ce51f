package snapshot

import (
	"errors"

	"warehouse-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for snapshots.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/snapshots")
	group.Post("/", h.HandleTake)
	group.Get("/latest", h.HandleLatest)
}

// HandleTake persists a snapshot now.
// @Summary Take Snapshot
// @Description Captures all warehouses and the conflict log into the database and the archive bucket.
// @Tags snapshots
// @Produce json
// @Success 201 {object} Result
// @Failure 503 {object} map[string]string "Persistence disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /snapshots [post]
func (h *Handler) HandleTake(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Take(c.UserContext())
	if errors.Is(err, ErrPersistenceDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Snapshot failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// HandleLatest returns metadata of the last persisted snapshot.
// @Summary Latest Snapshot
// @Tags snapshots
// @Produce json
// @Success 200 {object} SnapshotRow
// @Failure 404 {object} map[string]string "No snapshot yet"
// @Failure 503 {object} map[string]string "Persistence disabled"
// @Router /snapshots/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	meta, ok, err := h.service.Latest(c.UserContext())
	if errors.Is(err, ErrPersistenceDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Snapshot lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no snapshot saved yet"})
	}
	return c.JSON(meta)
}

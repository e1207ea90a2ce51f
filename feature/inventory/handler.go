package inventory

import (
	"context"
	"errors"

	"warehouse-sync/core/logger"
	"warehouse-sync/core/reconcile"
	"warehouse-sync/core/utils"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for warehouses, stock and sync state.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	wh := app.Group("/warehouses")
	wh.Post("/", h.HandleRegisterWarehouse)
	wh.Get("/", h.HandleListWarehouses)
	wh.Get("/:id", h.HandleGetWarehouse)
	wh.Patch("/:id/status", h.HandleSetStatus)

	inv := app.Group("/inventory")
	inv.Get("/:product/global", h.HandleGlobal)
	inv.Post("/:warehouse/:product", h.HandleUpdate)
	inv.Post("/:warehouse/:product/reserve", h.HandleReserve)
	inv.Post("/:warehouse/:product/release", h.HandleRelease)
	inv.Post("/:warehouse/:product/commit", h.HandleCommit)

	app.Get("/fulfillment/:product", h.HandleFulfillment)

	sg := app.Group("/sync")
	sg.Get("/status", h.HandleSyncStatus)
	sg.Get("/conflicts", h.HandleConflicts)
}

// HandleRegisterWarehouse registers a warehouse.
// @Summary Register Warehouse
// @Description Adds a warehouse with its location. It starts active with no stock.
// @Tags warehouses
// @Accept json
// @Produce json
// @Param body body RegisterWarehouseRequest true "Warehouse"
// @Success 201 {object} reconcile.WarehouseView
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /warehouses [post]
func (h *Handler) HandleRegisterWarehouse(c *fiber.Ctx) error {
	var req RegisterWarehouseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	view, err := h.service.RegisterWarehouse(req)
	if err != nil {
		return h.fail(c, "Warehouse registration failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleListWarehouses lists warehouses.
// @Summary List Warehouses
// @Tags warehouses
// @Produce json
// @Success 200 {array} reconcile.WarehouseView
// @Router /warehouses [get]
func (h *Handler) HandleListWarehouses(c *fiber.Ctx) error {
	return c.JSON(h.service.ListWarehouses())
}

// HandleGetWarehouse returns one warehouse with its inventory.
// @Summary Get Warehouse
// @Tags warehouses
// @Produce json
// @Param id path string true "Warehouse ID"
// @Success 200 {object} reconcile.WarehouseView
// @Failure 404 {object} ErrorResponse
// @Router /warehouses/{id} [get]
func (h *Handler) HandleGetWarehouse(c *fiber.Ctx) error {
	view, err := h.service.GetWarehouse(param(c, "id"))
	if err != nil {
		return h.fail(c, "Warehouse lookup failed", err)
	}
	return c.JSON(view)
}

// HandleSetStatus activates or deactivates a warehouse.
// @Summary Set Warehouse Status
// @Description Inactive warehouses keep accepting local updates but are skipped as propagation targets and for fulfillment.
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path string true "Warehouse ID"
// @Param body body StatusRequest true "Status"
// @Success 200 {object} reconcile.WarehouseView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /warehouses/{id}/status [patch]
func (h *Handler) HandleSetStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	view, err := h.service.SetStatus(param(c, "id"), req.Status)
	if err != nil {
		return h.fail(c, "Status change failed", err)
	}
	return c.JSON(view)
}

// HandleUpdate applies an inventory operation at a warehouse.
// @Summary Update Inventory
// @Description Applies set, add, subtract, reserve or release locally and queues propagation to the other active warehouses.
// @Tags inventory
// @Accept json
// @Produce json
// @Param warehouse path string true "Warehouse ID"
// @Param product path string true "Product ID"
// @Param body body UpdateRequest true "Operation"
// @Success 200 {object} UpdateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient inventory"
// @Router /inventory/{warehouse}/{product} [post]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	resp, err := h.service.Update(c.UserContext(), param(c, "warehouse"), param(c, "product"), req)
	if err != nil {
		return h.fail(c, "Inventory update failed", err)
	}
	return c.JSON(resp)
}

// HandleReserve holds stock for an order.
// @Summary Reserve Inventory
// @Tags inventory
// @Accept json
// @Produce json
// @Param warehouse path string true "Warehouse ID"
// @Param product path string true "Product ID"
// @Param body body QuantityRequest true "Quantity"
// @Success 200 {object} UpdateResponse
// @Failure 409 {object} ErrorResponse "Insufficient inventory"
// @Router /inventory/{warehouse}/{product}/reserve [post]
func (h *Handler) HandleReserve(c *fiber.Ctx) error {
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	resp, err := h.service.Reserve(c.UserContext(), param(c, "warehouse"), param(c, "product"), req.Quantity)
	if err != nil {
		return h.fail(c, "Reservation failed", err)
	}
	return c.JSON(resp)
}

// HandleRelease returns held stock.
// @Summary Release Reservation
// @Tags inventory
// @Accept json
// @Produce json
// @Param warehouse path string true "Warehouse ID"
// @Param product path string true "Product ID"
// @Param body body QuantityRequest true "Quantity"
// @Success 200 {object} UpdateResponse
// @Router /inventory/{warehouse}/{product}/release [post]
func (h *Handler) HandleRelease(c *fiber.Ctx) error {
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	resp, err := h.service.Release(c.UserContext(), param(c, "warehouse"), param(c, "product"), req.Quantity)
	if err != nil {
		return h.fail(c, "Release failed", err)
	}
	return c.JSON(resp)
}

// HandleCommit converts a reservation into a shipment deduction.
// @Summary Commit Reservation
// @Tags inventory
// @Accept json
// @Produce json
// @Param warehouse path string true "Warehouse ID"
// @Param product path string true "Product ID"
// @Param body body QuantityRequest true "Quantity"
// @Success 200 {object} reconcile.InventoryRecord
// @Router /inventory/{warehouse}/{product}/commit [post]
func (h *Handler) HandleCommit(c *fiber.Ctx) error {
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	rec, err := h.service.Commit(c.UserContext(), param(c, "warehouse"), param(c, "product"), req.Quantity)
	if err != nil {
		return h.fail(c, "Commit failed", err)
	}
	return c.JSON(rec)
}

// HandleGlobal aggregates a product across warehouses.
// @Summary Global Inventory
// @Tags inventory
// @Produce json
// @Param product path string true "Product ID"
// @Success 200 {object} reconcile.GlobalInventory
// @Router /inventory/{product}/global [get]
func (h *Handler) HandleGlobal(c *fiber.Ctx) error {
	return c.JSON(h.service.Global(param(c, "product")))
}

// HandleFulfillment picks the nearest active warehouse that can ship the quantity.
// @Summary Find Fulfillment Warehouse
// @Tags fulfillment
// @Produce json
// @Param product path string true "Product ID"
// @Param quantity query int true "Units to ship"
// @Param lat query number true "Destination latitude"
// @Param lng query number true "Destination longitude"
// @Success 200 {object} reconcile.Candidate
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No warehouse can fulfil"
// @Router /fulfillment/{product} [get]
func (h *Handler) HandleFulfillment(c *fiber.Ctx) error {
	qty, ok := utils.ToInt64(c.Query("quantity"))
	if !ok || qty <= 0 {
		return badRequest(c, "quantity must be a positive integer")
	}
	lat, okLat := utils.ToFloat64(c.Query("lat"))
	lng, okLng := utils.ToFloat64(c.Query("lng"))
	if !okLat || !okLng || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return badRequest(c, "lat and lng must be valid coordinates")
	}

	candidate, found := h.service.Fulfillment(param(c, "product"), qty, reconcile.Location{Latitude: lat, Longitude: lng})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "no warehouse can fulfil this quantity"})
	}
	return c.JSON(candidate)
}

// HandleSyncStatus reports replication health.
// @Summary Sync Status
// @Tags sync
// @Produce json
// @Success 200 {object} reconcile.SyncStatus
// @Router /sync/status [get]
func (h *Handler) HandleSyncStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.SyncStatus())
}

// HandleConflicts lists detected conflicts, newest first.
// @Summary List Conflicts
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum number of conflicts"
// @Success 200 {array} reconcile.Conflict
// @Router /sync/conflicts [get]
func (h *Handler) HandleConflicts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	return c.JSON(h.service.Conflicts(limit))
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err), zap.Int("status", status))
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrWarehouseNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrDuplicateWarehouse), errors.Is(err, reconcile.ErrInsufficientInventory):
		return fiber.StatusConflict
	case errors.Is(err, reconcile.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// param copies a route parameter out of the request buffer, which Fiber
// reuses. The engine keeps warehouse and product IDs as map keys.
func param(c *fiber.Ctx, name string) string {
	return fiberutils.CopyString(c.Params(name))
}

package handler

import (
	"errors"
	"net/http"

	"apex-tracker/internal/core/logger"
	"apex-tracker/internal/features/orders/domain"
	"apex-tracker/internal/features/orders/ports"
	"apex-tracker/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles the admin HTTP requests related to orders.
type OrderHandler struct {
	// store is the order store backing every route.
	store ports.OrderStore
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(store ports.OrderStore) *OrderHandler {
	return &OrderHandler{
		store: store,
	}
}

// Register mounts the order routes on r.
func (h *OrderHandler) Register(r fiber.Router) {
	r.Get("/orders", h.ListOrders)
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/:trackingId", h.GetOrder)
	r.Patch("/orders/:trackingId", h.PatchOrder)
	r.Post("/orders/:trackingId/status", h.UpdateStatus)
}

// ListOrders returns every stored order.
// @Summary List orders
// @Description Returns the full orders collection, newest first. Seeds sample orders on first use.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Failure 401 {object} ErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.store.ListOrders(c.UserContext()))
}

// CreateOrder handles the admin create-order form.
// @Summary Create order
// @Description Creates an order with status "ordered" and a fresh tracking id.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body domain.CreateOrderRequest true "New order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req domain.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	order, err := h.store.CreateOrder(c.UserContext(), req)
	if err != nil {
		return h.fail(c, "", err)
	}

	return c.Status(http.StatusCreated).JSON(order)
}

// GetOrder returns the raw stored order.
// @Summary Get order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param trackingId path string true "Tracking ID"
// @Success 200 {object} domain.Order
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/orders/{trackingId} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")

	order, ok := h.store.FindByTrackingID(c.UserContext(), trackingID)
	if !ok {
		return h.fail(c, trackingID, service.ErrOrderNotFound)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// PatchOrder merges a partial order into the matching order.
// @Summary Patch order
// @Description Merges the given fields into the order. Identifier and creation time cannot be changed.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trackingId path string true "Tracking ID"
// @Param patch body domain.Patch true "Fields to change"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/orders/{trackingId} [patch]
func (h *OrderHandler) PatchOrder(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")

	var patch domain.Patch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}

	if patch.IsEmpty() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Patch contains no fields",
			RayID:   rayID(c),
		})
	}

	if err := domain.ValidatePatch(patch); err != nil {
		return h.fail(c, trackingID, err)
	}

	ctx := c.UserContext()
	if _, ok := h.store.FindByTrackingID(ctx, trackingID); !ok {
		return h.fail(c, trackingID, service.ErrOrderNotFound)
	}

	if _, err := h.store.UpdateOrder(ctx, trackingID, patch); err != nil {
		return h.fail(c, trackingID, err)
	}

	order, ok := h.store.FindByTrackingID(ctx, trackingID)
	if !ok {
		return h.fail(c, trackingID, service.ErrOrderNotFound)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// UpdateStatus handles the admin update-status form.
// @Summary Update order status
// @Description Moves the order to a new status. On hold requires a reason; leaving on hold clears it.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trackingId path string true "Tracking ID"
// @Param update body domain.StatusUpdateRequest true "Status update"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/orders/{trackingId}/status [post]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")

	var req domain.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	order, err := h.store.ApplyStatusUpdate(c.UserContext(), trackingID, req)
	if err != nil {
		return h.fail(c, trackingID, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

func (h *OrderHandler) fail(c *fiber.Ctx, trackingID string, err error) error {
	id := rayID(c)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
			Message: "Validation failed",
			RayID:   id,
			Errors:  verr.Fields,
		})
	}

	if errors.Is(err, service.ErrOrderNotFound) {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Message: "Order not found",
			RayID:   id,
		})
	}

	logger.Get().Error("Order request failed",
		zap.String("tracking_id", trackingID),
		zap.String("ray_id", id),
		zap.Error(err),
	)

	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Message: "Internal Server Error",
		RayID:   id,
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Message: "Invalid request body",
		RayID:   rayID(c),
	})
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// ValidationErrorResponse is returned when a form fails validation.
type ValidationErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id"`
	// Errors maps each invalid field to its message.
	Errors map[string]string `json:"errors"`
}

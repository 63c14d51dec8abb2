package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"apex-tracker/internal/core/logger"
	"apex-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// SSE event names.
const (
	EventUpdate   = "update"
	EventNotFound = "not_found"
)

// DefaultHeartbeatInterval is how often an idle stream writes a comment line.
// A failed heartbeat is how a closed client connection is noticed.
const DefaultHeartbeatInterval = 15 * time.Second

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackingService *service.TrackingService
	watcher         *service.Watcher
	baseCtx         context.Context
	heartbeat       time.Duration
}

// Option configures a TrackingHandler.
type Option func(*TrackingHandler)

// WithContext sets the context every stream derives from. Cancelling it ends
// all open streams, e.g. on server shutdown.
func WithContext(ctx context.Context) Option {
	return func(h *TrackingHandler) { h.baseCtx = ctx }
}

// WithHeartbeat overrides DefaultHeartbeatInterval. Non-positive values are ignored.
func WithHeartbeat(d time.Duration) Option {
	return func(h *TrackingHandler) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService, watcher *service.Watcher, opts ...Option) *TrackingHandler {
	h := &TrackingHandler{
		trackingService: trackingService,
		watcher:         watcher,
		baseCtx:         context.Background(),
		heartbeat:       DefaultHeartbeatInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GetTracking godoc
// @Summary Get tracking view for a shipment
// @Description Builds the customer tracking view (status, history, estimate) for a tracking id. Lookup ignores case and surrounding spaces.
// @Tags tracking
// @Produce json
// @Param id path string true "Tracking ID"
// @Success 200 {object} domain.TrackingViewModel
// @Failure 404 {object} ErrorResponse
// @Router /tracking/{id} [get]
func (h *TrackingHandler) GetTracking(c *fiber.Ctx) error {
	trackingID := c.Params("id")

	vm, err := h.trackingService.Track(c.UserContext(), trackingID)
	if err != nil {
		if errors.Is(err, service.ErrTrackingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "tracking id not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to build tracking view",
			zap.String("tracking_id", trackingID),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(vm)
}

// StreamTracking godoc
// @Summary Stream tracking view updates
// @Description Server-sent events: an "update" or "not_found" event immediately, then one whenever the stored order changes. Idle streams get a ": ping" comment every heartbeat interval.
// @Tags tracking
// @Produce text/event-stream
// @Param id path string true "Tracking ID"
// @Success 200 {object} service.Update
// @Router /tracking/{id}/stream [get]
func (h *TrackingHandler) StreamTracking(c *fiber.Ctx) error {
	// Params are only valid for the lifetime of the handler.
	trackingID := utils.CopyString(c.Params("id"))
	id := rayID(c)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		err := h.stream(w, trackingID)
		logger.Get().Debug("Tracking stream closed",
			zap.String("tracking_id", trackingID),
			zap.String("ray_id", id),
			zap.Error(err),
		)
	}))

	return nil
}

// stream forwards watcher updates to w until the base context ends or a write
// fails. Cancelling on return stops the watcher's polling.
func (h *TrackingHandler) stream(w *bufio.Writer, trackingID string) error {
	ctx, cancel := context.WithCancel(h.baseCtx)
	defer cancel()

	updates := h.watcher.Watch(ctx, trackingID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		var err error
		select {
		case u, ok := <-updates:
			if !ok {
				return ctx.Err()
			}
			err = WriteEvent(w, u)
		case <-ticker.C:
			err = WriteHeartbeat(w)
		}
		if err != nil {
			return err
		}
	}
}

// WriteEvent writes u as one server-sent event and flushes it.
func WriteEvent(w *bufio.Writer, u service.Update) error {
	event := EventUpdate
	var payload any = u.View
	if !u.Found {
		event = EventNotFound
		payload = u
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal tracking update: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

// WriteHeartbeat writes an SSE comment line and flushes it.
func WriteHeartbeat(w *bufio.Writer) error {
	if _, err := w.WriteString(": ping\n\n"); err != nil {
		return err
	}
	return w.Flush()
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return ""
	}
	return id
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"apex-tracker/internal/core/config"
	"apex-tracker/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "apex-tracker/docs/swagger"
)

// healthTimeout bounds the store ping behind /healthz.
const healthTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
	// ctx is cancelled by Shutdown so long-lived handlers can return.
	ctx    context.Context
	cancel context.CancelFunc
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	RayID   string `json:"ray_id"`
}

// New creates a new Server instance with configured middleware and the
// health check backed by store.
func New(cfg *config.AppConfig, store Pinger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "apex-tracker",
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/healthz", healthHandler(cfg, store))
	app.Get("/swagger/*", swagger.HandlerDefault)

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		App:    app,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context is done once Shutdown has been called. Streaming handlers derive
// their contexts from it.
func (s *Server) Context() context.Context {
	return s.ctx
}

// healthHandler godoc
// @Summary Health check
// @Description Reports whether the key-value store answers a ping.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func healthHandler(cfg *config.AppConfig, store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rayID, _ := c.Locals("requestid").(string)

		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Get().Error("Health check failed",
				zap.String("driver", cfg.Storage.Driver),
				zap.String("ray_id", rayID),
				zap.Error(err),
			)
			return c.Status(http.StatusServiceUnavailable).JSON(HealthResponse{
				Status:  "unavailable",
				Storage: cfg.Storage.Driver,
				RayID:   rayID,
			})
		}

		return c.Status(http.StatusOK).JSON(HealthResponse{
			Status:  "ok",
			Storage: cfg.Storage.Driver,
			RayID:   rayID,
		})
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Get().Info("Shutting down server")
	s.cancel()
	return s.App.ShutdownWithContext(ctx)
}

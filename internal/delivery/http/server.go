package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/config"
	"github.com/hotspot-explorer/internal/delivery/http/handler"
	"github.com/hotspot-explorer/internal/delivery/http/middleware"
	"github.com/hotspot-explorer/internal/pkg/errors"
	"github.com/hotspot-explorer/internal/pkg/utils"
)

// Handlers groups the route handlers of the API.
type Handlers struct {
	Hotspot   *handler.HotspotHandler
	DrillDown *handler.DrillDownHandler
	Facet     *handler.FacetHandler
	Session   *handler.SessionHandler
	Health    *handler.HealthHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Hotspot Explorer",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App exposes the Fiber application, mainly for app.Test in handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.handlers.Health.Health)

	// Hotspot routes
	hotspots := api.Group("/hotspots")
	hotspots.Get("/resolutions", s.handlers.Hotspot.Resolutions)
	hotspots.Get("/locate", s.handlers.Hotspot.Locate)
	hotspots.Post("/rank", s.handlers.Hotspot.Rank)

	// Drill-down routes
	hotspots.Post("/cells/:cell_id/summary", s.handlers.DrillDown.Summary)
	hotspots.Post("/cells/:cell_id/records", s.handlers.DrillDown.Records)

	// Facet routes
	api.Post("/facets/refresh", s.handlers.Facet.Refresh)
	api.Get("/facets/:table/:column", s.handlers.Facet.List)

	// Session routes
	api.Post("/sessions", s.handlers.Session.Create)
	sessions := api.Group("/sessions")
	sessions.Get("/:id/radius", s.handlers.Session.GetRadius)
	sessions.Put("/:id/radius", s.handlers.Session.UpdateRadius)
	sessions.Put("/:id/radius/reference", s.handlers.Session.MoveReference)
	sessions.Post("/:id/radius/confirm", s.handlers.Session.Confirm)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные хендлерами (404 маршрута,
// паника, слишком большое тело)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			code := errors.CodeInvalidRequest
			if e.Code >= fiber.StatusInternalServerError {
				code = errors.CodeInternalServer
			}
			return c.Status(e.Code).JSON(utils.ErrorResponse{
				Error: errors.New(code, e.Message, e.Code),
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}

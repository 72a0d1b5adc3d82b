// Package server exposes the question pipeline over HTTP.
package server

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spektr-org/asksql/pipeline"
	"github.com/spektr-org/asksql/profile"
)

// Asker answers a question. *pipeline.Pipeline satisfies it.
type Asker interface {
	Ask(ctx context.Context, question string) (*pipeline.Answer, error)
}

// Config holds what the server reports and keeps.
type Config struct {
	DatasetName string
	Profile     *profile.Profile
	Examples    []string
	HistorySize int
}

// Server is the fiber application plus its in-memory history.
type Server struct {
	app      *fiber.App
	asker    Asker
	cfg      Config
	history  *History
	validate *validator.Validate
	logger   *zap.Logger
}

// New builds the server and registers its routes.
func New(cfg Config, asker Asker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Profile == nil {
		cfg.Profile = &profile.Profile{}
	}
	if cfg.Examples == nil {
		cfg.Examples = pipeline.DemoQuestions
	}

	s := &Server{
		asker:    asker,
		cfg:      cfg,
		history:  NewHistory(cfg.HistorySize),
		validate: validator.New(),
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "asksql",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(RequestID())
	s.app.Use(Recover(logger))
	s.app.Use(AccessLog(logger))

	s.app.Get("/healthz", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")
	api.Post("/ask", s.ask)
	api.Get("/history", s.listHistory)
	api.Get("/examples", s.examples)
	api.Get("/schema", s.schema)

	return s
}

// App returns the underlying fiber app (used by tests).
func (s *Server) App() *fiber.App { return s.app }

// History returns the question history.
func (s *Server) History() *History { return s.history }

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("server listening", zap.String("addr", addr), zap.String("dataset", s.cfg.DatasetName))
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":      utils.StatusMessage(code),
		"message":    err.Error(),
		"request_id": GetRequestID(c),
	})
}

package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spektr-org/asksql/pipeline"
)

// AskRequest represents a question request
type AskRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}

// ask handles POST /api/ask
func (s *Server) ask(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Bad Request",
			"message": "Invalid request body: " + err.Error(),
		})
	}
	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Bad Request",
			"message": "question is required and must be at most 2000 characters",
		})
	}

	answer, err := s.asker.Ask(c.UserContext(), req.Question)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyQuestion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Bad Request",
				"message": err.Error(),
			})
		}
		s.logger.Error("question failed",
			zap.String("request_id", GetRequestID(c)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":      "Bad Gateway",
			"message":    err.Error(),
			"request_id": GetRequestID(c),
		})
	}

	// History only holds answers that encode.
	body, err := c.App().Config().JSONEncoder(answer)
	if err != nil {
		s.logger.Error("answer encoding failed",
			zap.String("request_id", GetRequestID(c)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Internal Server Error",
			"message":    "answer could not be encoded: " + err.Error(),
			"request_id": GetRequestID(c),
		})
	}

	s.history.Add(Entry{
		ID:        uuid.New().String(),
		RequestID: GetRequestID(c),
		AskedAt:   time.Now().UTC(),
		Answer:    answer,
	})

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// listHistory handles GET /api/history
func (s *Server) listHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"entries": s.history.List(),
	})
}

// examples handles GET /api/examples
func (s *Server) examples(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"questions": s.cfg.Examples,
	})
}

// schema handles GET /api/schema
func (s *Server) schema(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"dataset": s.cfg.DatasetName,
		"rows":    s.cfg.Profile.Rows,
		"columns": s.cfg.Profile.Columns,
	})
}

// health handles GET /healthz
func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

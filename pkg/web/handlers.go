package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/echosight/echosight/pkg/loop"
)

// statusResponse is the /api/status body: the loop snapshot plus the
// voice status projection.
type statusResponse struct {
	loop.Snapshot
	Voice string `json:"voice"`
}

func (s *Server) statusPayload() statusResponse {
	resp := statusResponse{Snapshot: s.loop.Snapshot()}
	if s.voice != nil {
		resp.Voice = s.voice().String()
	}
	return resp
}

// handleStatus returns the current snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.statusPayload())
}

// handleEvents returns the in-session event log.
func (s *Server) handleEvents(c *fiber.Ctx) error {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()
	return c.JSON(s.events)
}

// handleAcquireCamera triggers camera acquisition.
// Acquisition failures are terminal and surface as 502 with the
// user-facing message already chosen by the controller.
func (s *Server) handleAcquireCamera(c *fiber.Ctx) error {
	if err := s.loop.AcquireCamera(c.Context()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(s.statusPayload())
}

// handleRefresh schedules the host reload and acknowledges immediately.
func (s *Server) handleRefresh(c *fiber.Ctx) error {
	s.loop.Refresh()
	return c.SendStatus(fiber.StatusAccepted)
}

// command wraps a controller command: rejected commands come back as
// 409 with the user-visible message, success returns the new snapshot.
func (s *Server) command(fn func() error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := fn(); err != nil {
			if errors.Is(err, loop.ErrNoCamera) || errors.Is(err, loop.ErrNotDetecting) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(s.statusPayload())
	}
}

package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-skywatch/pkg/hub"
)

// handleStatus returns the current pipeline state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleDetections returns recent detections from the store.
func (s *Server) handleDetections(c *fiber.Ctx) error {
	if s.db == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "persistence not configured",
		})
	}

	limit := c.QueryInt("limit", 100)
	records, err := s.db.RecentDetections(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(records)
}

// handleADSB returns the current ADS-B picture.
func (s *Server) handleADSB(c *fiber.Ctx) error {
	if s.OnADSBStatus == nil {
		return c.JSON(fiber.Map{"enabled": false})
	}

	status, err := s.OnADSBStatus()
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(status)
}

// handleToggle flips detection on or off.
func (s *Server) handleToggle(c *fiber.Ctx) error {
	if s.OnToggle == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "pipeline not attached",
		})
	}

	active := s.OnToggle()
	s.UpdateState(func(st *State) { st.DetectionActive = active })
	return c.JSON(fiber.Map{"active": active})
}

// handleSettings applies live detection tuning.
func (s *Server) handleSettings(c *fiber.Ctx) error {
	if s.OnSettings == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "pipeline not attached",
		})
	}

	var req struct {
		MinArea             float64 `json:"min_area"`
		ConfidenceThreshold float64 `json:"confidence_threshold"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := s.OnSettings(req.MinArea, req.ConfidenceThreshold); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// handleSnapshot saves the current annotated frame to disk.
func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	if s.OnSnapshot == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "pipeline not attached",
		})
	}

	path, err := s.OnSnapshot()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"filename": path})
}

// handleClearTracks drops all tracked objects.
func (s *Server) handleClearTracks(c *fiber.Ctx) error {
	if s.OnClearTracks == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "pipeline not attached",
		})
	}

	s.OnClearTracks()
	return c.JSON(fiber.Map{"success": true})
}

// handleFramesWS streams annotated JPEG frames.
func (s *Server) handleFramesWS(conn *websocket.Conn) {
	hub.NewClient(s.frameHub, conn).Run()
}

// handleStatusWS streams state updates as JSON.
func (s *Server) handleStatusWS(conn *websocket.Conn) {
	hub.NewClient(s.statusHub, conn).Run()
}

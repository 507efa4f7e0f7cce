// Package web provides the live monitoring dashboard: system status,
// recent detections, and annotated frame streaming over websockets.
package web

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-skywatch/internal/log"
	"github.com/teslashibe/go-skywatch/pkg/hub"
	"github.com/teslashibe/go-skywatch/pkg/store"
)

// State is the dashboard snapshot of the detection pipeline.
type State struct {
	DetectionActive bool   `json:"detection_active"`
	FrameCount      int    `json:"frame_count"`
	CandidateCount  int    `json:"candidate_count"`
	TrackedObjects  int    `json:"tracked_objects"`
	ADSBEnabled     bool   `json:"adsb_enabled"`
	LastDetection   string `json:"last_detection"`
}

// DetectionStore is the slice of the persistence layer the dashboard reads.
type DetectionStore interface {
	RecentDetections(limit int) ([]store.Record, error)
}

// Server is the dashboard web server.
type Server struct {
	app  *fiber.App
	port string

	state   State
	stateMu sync.RWMutex

	db DetectionStore

	// Hubs for websocket broadcast.
	statusHub *hub.Hub
	frameHub  *hub.Hub

	// Callbacks into the pipeline. All optional.
	OnToggle      func() bool                             // Flip detection on/off; returns new state
	OnClearTracks func()                                  // Drop all tracked objects
	OnSnapshot    func() (string, error)                  // Save the current frame; returns path
	OnSettings    func(minArea, confidence float64) error // Apply live detection tuning
	OnADSBStatus  func() (any, error)                     // Current ADS-B picture
}

// NewServer creates the dashboard server.
func NewServer(port string, db DetectionStore) *Server {
	s := &Server{
		port:      port,
		db:        db,
		statusHub: hub.New("status"),
		frameHub:  hub.New("frames"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Skywatch Dashboard",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/detections", s.handleDetections)
	api.Get("/adsb", s.handleADSB)
	api.Post("/toggle", s.handleToggle)
	api.Post("/settings", s.handleSettings)
	api.Post("/snapshot", s.handleSnapshot)
	api.Post("/tracks/clear", s.handleClearTracks)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start runs the server, blocking until shutdown.
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)

	go s.statusHub.Run()
	go s.frameHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync runs the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server failed", "error", err)
		}
	}()
}

// UpdateState mutates the dashboard state and broadcasts it.
func (s *Server) UpdateState(update func(*State)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// PublishFrame streams an annotated JPEG frame to connected viewers.
func (s *Server) PublishFrame(jpeg []byte) {
	s.frameHub.BroadcastBinary(jpeg)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

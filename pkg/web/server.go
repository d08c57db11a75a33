// Package web exposes the loop controller's commands and status
// projections over HTTP and websocket streams.
//
// This is the external collaborator surface: buttons, keyboards, and
// displays talk to these routes; all rendering happens client-side.
package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/echosight/echosight/pkg/announce"
	"github.com/echosight/echosight/pkg/hub"
	"github.com/echosight/echosight/pkg/loop"
)

// maxEvents bounds the in-session event ring. Nothing is persisted.
const maxEvents = 500

// Loop is the command surface the server drives.
// *loop.Controller is the production implementation.
type Loop interface {
	AcquireCamera(ctx context.Context) error
	Start() error
	Stop() error
	Pause() error
	StopCamera() error
	Refresh()
	TogglePlayback() error
	Snapshot() loop.Snapshot
}

// Event is one entry of the visible running log.
type Event struct {
	Time    string `json:"time"`
	Tier    string `json:"tier"`
	Message string `json:"message"`
}

// Server serves the command routes and live status/event streams.
type Server struct {
	app  *fiber.App
	addr string

	loop   Loop
	voice  func() announce.VoiceStatus
	logger *slog.Logger

	statusHub *hub.Hub
	eventHub  *hub.Hub

	eventsMu sync.RWMutex
	events   []Event
}

// NewServer wires the routes. voice reports the dispatcher's status
// projection; it may be nil.
func NewServer(addr string, lp Loop, voice func() announce.VoiceStatus) *Server {
	s := &Server{
		addr:      addr,
		loop:      lp,
		voice:     voice,
		logger:    slog.Default().With("component", "web.server"),
		statusHub: hub.New("status"),
		eventHub:  hub.New("events"),
		events:    make([]Event, 0, maxEvents),
	}

	app := fiber.New(fiber.Config{
		AppName:               "echosight",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/events", s.handleEvents)
	api.Post("/camera", s.handleAcquireCamera)
	api.Post("/camera/stop", s.command(func() error { return s.loop.StopCamera() }))
	api.Post("/start", s.command(func() error { return s.loop.Start() }))
	api.Post("/stop", s.command(func() error { return s.loop.Stop() }))
	api.Post("/pause", s.command(func() error { return s.loop.Pause() }))
	api.Post("/toggle", s.command(func() error { return s.loop.TogglePlayback() }))
	api.Post("/refresh", s.handleRefresh)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.statusHub.Serve))
	app.Get("/ws/events", websocket.New(s.eventHub.Serve))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until shutdown.
func (s *Server) Start() error {
	go s.statusHub.Run()
	go s.eventHub.Run()
	s.logger.Info("command surface listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// StartAsync runs Start on a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("server stopped", "error", err)
		}
	}()
}

// Shutdown stops the stream hubs and gracefully stops the listener.
func (s *Server) Shutdown() error {
	s.statusHub.Stop()
	s.eventHub.Stop()
	return s.app.Shutdown()
}

// PushStatus broadcasts the current snapshot to status stream clients.
// Wire this to the controller's OnStatus hook.
func (s *Server) PushStatus(system, cam loop.Status) {
	s.statusHub.BroadcastJSON(s.statusPayload())
}

// PushEvent records an event and broadcasts it.
// Wire this to the controller's OnEvent hook.
func (s *Server) PushEvent(tier loop.Tier, message string) {
	e := Event{
		Time:    time.Now().Format(time.TimeOnly),
		Tier:    tier.String(),
		Message: message,
	}

	s.eventsMu.Lock()
	s.events = append(s.events, e)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
	s.eventsMu.Unlock()

	s.eventHub.BroadcastJSON(e)
}

package api

import (
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/open-teleop/odometry/domain/diagnostic"
	"github.com/open-teleop/odometry/domain/odometry"
	"github.com/open-teleop/odometry/domain/teleop"
	"github.com/open-teleop/odometry/pkg/config"
	customlog "github.com/open-teleop/odometry/pkg/log"
)

// OdometrySource exposes the latest published odometry record
type OdometrySource interface {
	Latest() (odometry.Odometry, bool)
}

// Dependencies holds everything the HTTP layer reads from or writes to
type Dependencies struct {
	Odometry    OdometrySource
	Teleop      *teleop.TeleopService
	Diagnostics *diagnostic.DiagnosticService
	Robot       config.RobotConfig
	Logger      customlog.Logger

	// StreamInterval is how often /ws/odometry checks for a new record.
	// Defaults to the robot tick period.
	StreamInterval time.Duration

	// DisableRequestLog turns off the fiber access log middleware
	DisableRequestLog bool
}

// NewApp builds the fiber application with all routes registered
func NewApp(deps Dependencies) *fiber.App {
	if deps.StreamInterval <= 0 {
		deps.StreamInterval = deps.Robot.Period()
	}

	app := fiber.New(fiber.Config{
		AppName:               "Open-Teleop Odometry",
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
	})

	if !deps.DisableRequestLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "open-teleop odometry",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	h := &handlers{deps: deps}

	api := app.Group("/api")
	api.Get("/odometry", h.handleGetOdometry)
	api.Get("/config", h.handleGetConfig)
	api.Post("/teleop/command", deps.Teleop.CommandHandler)
	api.Get("/teleop/command", h.handleGetCommand)
	api.Get("/diagnostics", deps.Diagnostics.GetMetricsHandler)

	ws := app.Group("/ws")
	ws.Use(func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/control", websocket.New(func(conn *websocket.Conn) {
		ControlWebSocketHandler(conn, deps.Logger, deps.Teleop)
	}))
	ws.Get("/odometry", websocket.New(func(conn *websocket.Conn) {
		OdometryWebSocketHandler(conn, deps.Logger, deps.Odometry, deps.StreamInterval)
	}))

	deps.Logger.Infof("Registered HTTP routes under /api and WebSocket routes under /ws")
	return app
}

type handlers struct {
	deps Dependencies
}

// handleGetOdometry returns the most recently published odometry record
func (h *handlers) handleGetOdometry(c *fiber.Ctx) error {
	odom, ok := h.deps.Odometry.Latest()
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "odometry not yet available",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "success",
		"odometry": odom,
		"yaw":      odometry.JSONFloat(odom.Pose.Orientation.Yaw()),
	})
}

// handleGetConfig returns the kinematic configuration in use
func (h *handlers) handleGetConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"robot":     h.deps.Robot,
		"period_ms": float64(h.deps.Robot.Period()) / float64(time.Millisecond),
	})
}

// handleGetCommand returns the command currently in force
func (h *handlers) handleGetCommand(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"command": h.deps.Teleop.CurrentCommand(),
	})
}

// customErrorHandler renders errors as JSON
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

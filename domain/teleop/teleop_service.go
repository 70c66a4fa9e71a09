package teleop

import (
	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/odometry/domain/odometry"
)

// Command sources reported to the recorder
const (
	SourceHTTP      = "http"
	SourceWebSocket = "websocket"
)

// Command represents a teleoperation command
type Command struct {
	LinearX  float64 `json:"linear_x"`
	AngularZ float64 `json:"angular_z"`
}

// CommandRecorder is notified of every accepted or rejected command
type CommandRecorder interface {
	RecordCommand(source string)
	RecordDecodeError(source string, err error)
}

// TeleopService feeds operator commands into the decomposer
type TeleopService struct {
	decomposer *odometry.Decomposer
	recorder   CommandRecorder
}

// NewTeleopService creates a new teleop service instance. recorder may be nil.
func NewTeleopService(decomposer *odometry.Decomposer, recorder CommandRecorder) *TeleopService {
	return &TeleopService{
		decomposer: decomposer,
		recorder:   recorder,
	}
}

// CommandHandler processes incoming teleop commands
func (s *TeleopService) CommandHandler(c *fiber.Ctx) error {
	var cmd Command
	if err := c.BodyParser(&cmd); err != nil {
		s.RecordDecodeError(SourceHTTP, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	wheels := s.SendCommand(SourceHTTP, cmd)

	return c.JSON(fiber.Map{
		"status":  "command applied",
		"command": cmd,
		"wheels":  wheels,
	})
}

// SendCommand applies a command from source and returns the new wheel speeds
func (s *TeleopService) SendCommand(source string, cmd Command) odometry.WheelVelocityPair {
	wheels := s.decomposer.Apply(odometry.Command{Linear: cmd.LinearX, Angular: cmd.AngularZ})
	if s.recorder != nil {
		s.recorder.RecordCommand(source)
	}
	return wheels
}

// SendTwist applies the planar part of a Twist from source
func (s *TeleopService) SendTwist(source string, twist odometry.TwistMsg) odometry.WheelVelocityPair {
	return s.SendCommand(source, Command{LinearX: twist.Linear.X, AngularZ: twist.Angular.Z})
}

// RecordDecodeError reports a command from source that could not be parsed
func (s *TeleopService) RecordDecodeError(source string, err error) {
	if s.recorder != nil {
		s.recorder.RecordDecodeError(source, err)
	}
}

// CurrentCommand returns the command in force
func (s *TeleopService) CurrentCommand() odometry.CommandSnapshot {
	return s.decomposer.State().Snapshot()
}

package zeromq

import (
	"fmt"

	"github.com/open-teleop/odometry/domain/odometry"
	customlog "github.com/open-teleop/odometry/pkg/log"
	"github.com/open-teleop/odometry/pkg/wire"
)

// SourceZeroMQ tags commands and decode errors that arrived over ZeroMQ.
const SourceZeroMQ = "zeromq"

// CommandSink applies a decoded velocity command.
type CommandSink interface {
	ApplyTwist(t odometry.TwistMsg) odometry.WheelVelocityPair
}

// CommandRecorder is notified of accepted and rejected commands.
type CommandRecorder interface {
	RecordCommand(source string)
	RecordDecodeError(source string, err error)
}

// TwistHandler decodes velocity commands and hands them to the decomposer
type TwistHandler struct {
	sink     CommandSink
	recorder CommandRecorder
	logger   customlog.Logger
}

// NewTwistHandler creates a new handler for velocity command messages.
// recorder may be nil.
func NewTwistHandler(sink CommandSink, recorder CommandRecorder, logger customlog.Logger) *TwistHandler {
	return &TwistHandler{
		sink:     sink,
		recorder: recorder,
		logger:   logger,
	}
}

// HandleMessage decodes a Twist payload (JSON or FlatBuffers) and applies it.
// A malformed payload is dropped and the previous command stays in force.
func (h *TwistHandler) HandleMessage(data []byte) error {
	twist, err := wire.DecodeTwist(data)
	if err != nil {
		if h.recorder != nil {
			h.recorder.RecordDecodeError(SourceZeroMQ, err)
		}
		return fmt.Errorf("failed to decode twist (%d bytes): %w", len(data), err)
	}

	wheels := h.sink.ApplyTwist(twist)
	if h.recorder != nil {
		h.recorder.RecordCommand(SourceZeroMQ)
	}
	h.logger.Debugf("Applied command linear=%.3f angular=%.3f -> left=%.3f right=%.3f",
		twist.Linear.X, twist.Angular.Z, wheels.Left, wheels.Right)
	return nil
}

// RegisterCommandHandler registers the twist handler for the command topic
func RegisterCommandHandler(dispatcher *MessageDispatcher, topic string, sink CommandSink, recorder CommandRecorder, logger customlog.Logger) *TwistHandler {
	handler := NewTwistHandler(sink, recorder, logger)
	dispatcher.RegisterHandler(topic, handler)
	return handler
}

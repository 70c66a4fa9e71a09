// Package wire encodes odometry records and decodes velocity commands for
// the ZeroMQ transport, as JSON envelopes or FlatBuffers tables.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/open-teleop/odometry/domain/odometry"
	"github.com/open-teleop/odometry/pkg/config"
)

// Message types carried in the JSON envelope
const (
	MsgTypeTwist     = "TWIST"
	MsgTypeOdometry  = "ODOMETRY"
	MsgTypeTransform = "TRANSFORM"
	MsgTypeError     = "ERROR"
)

var (
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrInvalidPayload      = errors.New("invalid payload")
	ErrUnknownMessageType  = errors.New("unknown message type")
)

// Message represents the generic JSON envelope used on the ZeroMQ sockets
type Message struct {
	Type      string      `json:"type"`
	Timestamp float64     `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// inboundMessage is Message with the payload left undecoded.
type inboundMessage struct {
	Type      string          `json:"type"`
	Timestamp float64         `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Codec serializes outbound records.
type Codec interface {
	Name() string
	EncodeOdometry(odom odometry.Odometry) ([]byte, error)
	EncodeTransform(tf odometry.TransformStamped) ([]byte, error)
}

// NewCodec returns the codec for a configured encoding name.
func NewCodec(encoding string) (Codec, error) {
	switch encoding {
	case config.EncodingJSON:
		return JSONCodec{}, nil
	case config.EncodingFlatbuffers:
		return FlatbuffersCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

// JSONCodec wraps records in a Message envelope.
type JSONCodec struct{}

func (JSONCodec) Name() string { return config.EncodingJSON }

func (JSONCodec) EncodeOdometry(odom odometry.Odometry) ([]byte, error) {
	return marshalEnvelope(MsgTypeOdometry, odom.Header.Stamp, odom)
}

func (JSONCodec) EncodeTransform(tf odometry.TransformStamped) ([]byte, error) {
	return marshalEnvelope(MsgTypeTransform, tf.Header.Stamp, tf)
}

func marshalEnvelope(msgType string, stamp time.Time, data interface{}) ([]byte, error) {
	msg := Message{
		Type:      msgType,
		Timestamp: float64(stamp.UnixNano()) / float64(time.Second),
		Data:      data,
	}
	out, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", msgType, err)
	}
	return out, nil
}

// DecodeTwist accepts any inbound command payload: a JSON envelope of type
// TWIST, a bare JSON Twist, or a FlatBuffers Twist table. Valid JSON is
// decoded as JSON; anything else is read as a FlatBuffers table.
func DecodeTwist(data []byte) (odometry.TwistMsg, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return odometry.TwistMsg{}, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if json.Valid(trimmed) {
		return decodeJSONTwist(trimmed)
	}
	twist, err := DecodeFlatbufferTwist(data)
	if err != nil && trimmed[0] == '{' {
		// A root offset whose low byte is 0x7B also starts with '{'.
		var raw json.RawMessage
		return odometry.TwistMsg{}, fmt.Errorf("%w: %v", ErrInvalidPayload, json.Unmarshal(trimmed, &raw))
	}
	return twist, err
}

// inboundTwist requires linear.x and angular.z to be present.
type inboundTwist struct {
	Linear  *inboundAxes `json:"linear"`
	Angular *inboundAxes `json:"angular"`
}

type inboundAxes struct {
	X *odometry.JSONFloat `json:"x"`
	Y *odometry.JSONFloat `json:"y"`
	Z *odometry.JSONFloat `json:"z"`
}

func (a *inboundAxes) vector() odometry.Vector3 {
	var v odometry.Vector3
	if a.X != nil {
		v.X = float64(*a.X)
	}
	if a.Y != nil {
		v.Y = float64(*a.Y)
	}
	if a.Z != nil {
		v.Z = float64(*a.Z)
	}
	return v
}

func decodeJSONTwist(data []byte) (odometry.TwistMsg, error) {
	var env inboundMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return odometry.TwistMsg{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	payload := data
	if env.Type != "" {
		if env.Type != MsgTypeTwist {
			return odometry.TwistMsg{}, fmt.Errorf("%w: %s", ErrUnknownMessageType, env.Type)
		}
		if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
			return odometry.TwistMsg{}, fmt.Errorf("%w: %s envelope without data", ErrInvalidPayload, env.Type)
		}
		payload = env.Data
	}

	var in inboundTwist
	if err := json.Unmarshal(payload, &in); err != nil {
		return odometry.TwistMsg{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if in.Linear == nil || in.Linear.X == nil {
		return odometry.TwistMsg{}, fmt.Errorf("%w: missing linear.x", ErrInvalidPayload)
	}
	if in.Angular == nil || in.Angular.Z == nil {
		return odometry.TwistMsg{}, fmt.Errorf("%w: missing angular.z", ErrInvalidPayload)
	}
	return odometry.TwistMsg{Linear: in.Linear.vector(), Angular: in.Angular.vector()}, nil
}

// EncodeTwistJSON builds a TWIST envelope, as sent by teleop clients.
func EncodeTwistJSON(twist odometry.TwistMsg, stamp time.Time) ([]byte, error) {
	return marshalEnvelope(MsgTypeTwist, stamp, twist)
}

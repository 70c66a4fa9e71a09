package zeromq

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/open-teleop/odometry/domain/odometry"
	customlog "github.com/open-teleop/odometry/pkg/log"
	"github.com/open-teleop/odometry/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() customlog.Logger {
	return customlog.NewLogrusLoggerWithWriter("error", io.Discard)
}

type countingRecorder struct {
	commands     map[string]int
	decodeErrors map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{commands: map[string]int{}, decodeErrors: map[string]int{}}
}

func (r *countingRecorder) RecordCommand(source string) { r.commands[source]++ }

func (r *countingRecorder) RecordDecodeError(source string, err error) { r.decodeErrors[source]++ }

type capturedMessage struct {
	topic string
	data  []byte
}

type capturePublisher struct {
	messages []capturedMessage
	err      error
}

func (p *capturePublisher) PublishMessage(topic string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, capturedMessage{topic: topic, data: data})
	return nil
}

func TestDispatcherRoutesByTopic(t *testing.T) {
	d := NewMessageDispatcher(quietLogger())
	var got []byte
	d.RegisterHandler("cmd_vel", HandlerFunc(func(data []byte) error {
		got = data
		return nil
	}))
	assert.Equal(t, []string{"cmd_vel"}, d.Topics())

	require.NoError(t, d.Dispatch([][]byte{[]byte("cmd_vel"), []byte("payload")}))
	assert.Equal(t, []byte("payload"), got)

	err := d.Dispatch([][]byte{[]byte("other"), []byte("payload")})
	assert.ErrorIs(t, err, ErrUnknownMessageType)

	err = d.Dispatch([][]byte{[]byte("cmd_vel")})
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestTwistHandlerAppliesCommand(t *testing.T) {
	state := odometry.NewCommandState()
	decomposer := odometry.NewDecomposer(0.55, state, nil)
	recorder := newCountingRecorder()
	d := NewMessageDispatcher(quietLogger())
	RegisterCommandHandler(d, "cmd_vel", decomposer, recorder, quietLogger())

	payload := []byte(`{"linear":{"x":1.0},"angular":{"z":0.0}}`)
	require.NoError(t, d.Dispatch([][]byte{[]byte("cmd_vel"), payload}))
	assert.Equal(t, odometry.WheelVelocityPair{Left: 1, Right: 1}, state.Wheels())

	fb := wire.EncodeTwistFlatbuffer(odometry.TwistMsg{Angular: odometry.Vector3{Z: 2}})
	require.NoError(t, d.Dispatch([][]byte{[]byte("cmd_vel"), fb}))
	assert.Equal(t, odometry.Decompose(0, 2, 0.55), state.Wheels())

	assert.Equal(t, 2, recorder.commands[SourceZeroMQ])
}

func TestTwistHandlerKeepsLastCommandOnBadPayload(t *testing.T) {
	state := odometry.NewCommandState()
	decomposer := odometry.NewDecomposer(0.55, state, nil)
	recorder := newCountingRecorder()
	h := NewTwistHandler(decomposer, recorder, quietLogger())

	require.NoError(t, h.HandleMessage([]byte(`{"linear":{"x":0.5},"angular":{"z":0}}`)))
	err := h.HandleMessage([]byte(`{"linear":`))
	assert.ErrorIs(t, err, wire.ErrInvalidPayload)

	assert.Equal(t, odometry.WheelVelocityPair{Left: 0.5, Right: 0.5}, state.Wheels())
	assert.Equal(t, 1, recorder.commands[SourceZeroMQ])
	assert.Equal(t, 1, recorder.decodeErrors[SourceZeroMQ])
}

func TestTwistHandlerWithoutRecorder(t *testing.T) {
	state := odometry.NewCommandState()
	h := NewTwistHandler(odometry.NewDecomposer(0.55, state, nil), nil, quietLogger())

	assert.NoError(t, h.HandleMessage([]byte(`{"linear":{"x":0.1},"angular":{"z":0}}`)))
	assert.Error(t, h.HandleMessage(nil))
}

func TestOdometryPublisherTopics(t *testing.T) {
	capture := &capturePublisher{}
	p := NewOdometryPublisher(capture, wire.FlatbuffersCodec{}, "odom", "tf")

	odom := odometry.Odometry{
		Header:       odometry.Header{Stamp: time.Unix(10, 0), FrameID: "odom"},
		ChildFrameID: "base_link",
		Pose: odometry.PoseMsg{
			Position:    odometry.Vector3{X: 2, Y: 1},
			Orientation: odometry.QuaternionFromYaw(1),
		},
	}
	require.NoError(t, p.SendTransform(odom.Transform()))
	require.NoError(t, p.PublishOdometry(odom))

	require.Len(t, capture.messages, 2)
	assert.Equal(t, "tf", capture.messages[0].topic)
	assert.Equal(t, "odom", capture.messages[1].topic)

	tf, err := wire.DecodeFlatbufferTransform(capture.messages[0].data)
	require.NoError(t, err)
	assert.Equal(t, odom.Pose.Position, tf.Translation)

	got, err := wire.DecodeFlatbufferOdometry(capture.messages[1].data)
	require.NoError(t, err)
	assert.Equal(t, odom.Pose, got.Pose)
}

func TestOdometryPublisherWrapsSendError(t *testing.T) {
	p := NewOdometryPublisher(&capturePublisher{err: ErrServiceClosed}, wire.JSONCodec{}, "odom", "tf")

	err := p.PublishOdometry(odometry.Odometry{})
	assert.True(t, errors.Is(err, ErrServiceClosed))
	assert.Contains(t, err.Error(), "odom")

	err = p.SendTransform(odometry.TransformStamped{})
	assert.ErrorIs(t, err, ErrServiceClosed)
}

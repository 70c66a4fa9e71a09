package wire

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"testing"
	"time"

	"github.com/open-teleop/odometry/domain/odometry"
	"github.com/open-teleop/odometry/pkg/config"
	customlog "github.com/open-teleop/odometry/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOdometry() odometry.Odometry {
	return odometry.Odometry{
		Header: odometry.Header{
			Stamp:   time.Date(2024, 5, 1, 12, 0, 0, 250_000_000, time.UTC),
			FrameID: "odom",
		},
		ChildFrameID: "base_link",
		Pose: odometry.PoseMsg{
			Position:    odometry.Vector3{X: 1.25, Y: -0.5},
			Orientation: odometry.QuaternionFromYaw(0.3),
		},
		Twist: odometry.TwistMsg{
			Linear:  odometry.Vector3{X: 0.4},
			Angular: odometry.Vector3{Z: -0.2},
		},
	}
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec("json")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = NewCodec("flatbuffers")
	require.NoError(t, err)
	assert.Equal(t, "flatbuffers", c.Name())

	_, err = NewCodec("xml")
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
}

func TestJSONCodecOdometryEnvelope(t *testing.T) {
	odom := sampleOdometry()
	data, err := JSONCodec{}.EncodeOdometry(odom)
	require.NoError(t, err)

	var env struct {
		Type      string            `json:"type"`
		Timestamp float64           `json:"timestamp"`
		Data      odometry.Odometry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, MsgTypeOdometry, env.Type)
	assert.InDelta(t, float64(odom.Header.Stamp.UnixNano())/1e9, env.Timestamp, 1e-6)
	assert.Equal(t, "odom", env.Data.Header.FrameID)
	assert.Equal(t, "base_link", env.Data.ChildFrameID)
	assert.True(t, odom.Header.Stamp.Equal(env.Data.Header.Stamp))
	assert.Equal(t, odom.Pose, env.Data.Pose)
	assert.Equal(t, odom.Twist, env.Data.Twist)
}

func TestJSONCodecTransformEnvelope(t *testing.T) {
	tf := sampleOdometry().Transform()
	data, err := JSONCodec{}.EncodeTransform(tf)
	require.NoError(t, err)

	var env struct {
		Type string                    `json:"type"`
		Data odometry.TransformStamped `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, MsgTypeTransform, env.Type)
	assert.Equal(t, tf.Translation, env.Data.Translation)
	assert.Equal(t, tf.Rotation, env.Data.Rotation)
}

func TestFlatbuffersCodecOdometry(t *testing.T) {
	odom := sampleOdometry()
	data, err := FlatbuffersCodec{}.EncodeOdometry(odom)
	require.NoError(t, err)

	got, err := DecodeFlatbufferOdometry(data)
	require.NoError(t, err)
	assert.True(t, odom.Header.Stamp.Equal(got.Header.Stamp))
	assert.Equal(t, odom.Header.FrameID, got.Header.FrameID)
	assert.Equal(t, odom.ChildFrameID, got.ChildFrameID)
	assert.Equal(t, odom.Pose, got.Pose)
	assert.Equal(t, odom.Twist, got.Twist)
}

func TestFlatbuffersCodecTransform(t *testing.T) {
	tf := sampleOdometry().Transform()
	data, err := FlatbuffersCodec{}.EncodeTransform(tf)
	require.NoError(t, err)

	got, err := DecodeFlatbufferTransform(data)
	require.NoError(t, err)
	assert.True(t, tf.Header.Stamp.Equal(got.Header.Stamp))
	assert.Equal(t, "odom", got.Header.FrameID)
	assert.Equal(t, "base_link", got.ChildFrameID)
	assert.Equal(t, tf.Translation, got.Translation)
	assert.Equal(t, tf.Rotation, got.Rotation)
}

func TestDecodeTwistFormats(t *testing.T) {
	want := odometry.TwistMsg{
		Linear:  odometry.Vector3{X: 0.75},
		Angular: odometry.Vector3{Z: -1.5},
	}

	envelope, err := EncodeTwistJSON(want, time.Unix(100, 0))
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"bare json", []byte(`{"linear":{"x":0.75,"y":0,"z":0},"angular":{"x":0,"y":0,"z":-1.5}}`)},
		{"bare json with whitespace", []byte("  \n{\"linear\":{\"x\":0.75},\"angular\":{\"z\":-1.5}}")},
		{"json envelope", envelope},
		{"flatbuffer", EncodeTwistFlatbuffer(want)},
		{"flatbuffer starting with a brace", braceRootedFlatbuffer(t, EncodeTwistFlatbuffer(want))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTwist(tt.data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, odometry.Command{Linear: 0.75, Angular: -1.5}, got.Command())
		})
	}
}

func TestDecodeTwistRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, ErrInvalidPayload},
		{"blank", []byte("   "), ErrInvalidPayload},
		{"broken json", []byte(`{"linear":`), ErrInvalidPayload},
		{"wrong field type", []byte(`{"linear":{"x":"fast"}}`), ErrInvalidPayload},
		{"other envelope", []byte(`{"type":"CONFIG_REQUEST","timestamp":1}`), ErrUnknownMessageType},
		{"twist envelope without data", []byte(`{"type":"TWIST","timestamp":1}`), ErrInvalidPayload},
		{"twist envelope with null data", []byte(`{"type":"TWIST","timestamp":0,"data":null}`), ErrInvalidPayload},
		{"object without twist fields", []byte(`{"speed":3}`), ErrInvalidPayload},
		{"missing angular", []byte(`{"linear":{"x":1}}`), ErrInvalidPayload},
		{"missing linear", []byte(`{"angular":{"z":1}}`), ErrInvalidPayload},
		{"missing angular z", []byte(`{"linear":{"x":1},"angular":{"x":1}}`), ErrInvalidPayload},
		{"null linear x", []byte(`{"linear":{"x":null},"angular":{"z":0}}`), ErrInvalidPayload},
		{"json null", []byte(`null`), ErrInvalidPayload},
		{"json array", []byte(`[1,2]`), ErrInvalidPayload},
		{"short binary", []byte{0x01, 0x02, 0x03}, ErrInvalidPayload},
		{"root offset out of range", []byte{0xff, 0x00, 0x00, 0x00, 0, 0, 0, 0}, ErrInvalidPayload},
		{"corrupt vtable", []byte{0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x7f}, ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTwist(tt.data)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// braceRootedFlatbuffer pads buf so its root offset is 0x7B, the byte for '{'.
// Offsets inside the buffer are relative, so shifting the body keeps it valid.
func braceRootedFlatbuffer(t *testing.T, buf []byte) []byte {
	t.Helper()
	root := binary.LittleEndian.Uint32(buf)
	require.Less(t, root, uint32('{'))
	pad := int('{' - root)

	out := make([]byte, 4, len(buf)+pad)
	binary.LittleEndian.PutUint32(out, uint32('{'))
	out = append(out, make([]byte, pad)...)
	out = append(out, buf[4:]...)
	require.Equal(t, byte('{'), out[0])
	return out
}

func TestDecodeTwistNonFiniteStrings(t *testing.T) {
	got, err := DecodeTwist([]byte(`{"linear":{"x":"NaN"},"angular":{"z":"-Inf"}}`))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.Linear.X))
	assert.True(t, math.IsInf(got.Angular.Z, -1))
}

func TestJSONCodecNonFiniteValues(t *testing.T) {
	odom := sampleOdometry()
	odom.Pose.Position = odometry.Vector3{X: math.NaN(), Y: math.Inf(1), Z: math.Inf(-1)}
	odom.Pose.Orientation = odometry.QuaternionFromYaw(math.NaN())

	data, err := JSONCodec{}.EncodeOdometry(odom)
	require.NoError(t, err)

	var env struct {
		Data struct {
			Pose struct {
				Position map[string]interface{} `json:"position"`
			} `json:"pose"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "NaN", env.Data.Pose.Position["x"])
	assert.Equal(t, "+Inf", env.Data.Pose.Position["y"])
	assert.Equal(t, "-Inf", env.Data.Pose.Position["z"])

	var back struct {
		Data odometry.Odometry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.Data.Pose.Position.X))
	assert.True(t, math.IsInf(back.Data.Pose.Position.Y, 1))
	assert.True(t, math.IsNaN(back.Data.Pose.Orientation.W))

	_, err = JSONCodec{}.EncodeTransform(odom.Transform())
	require.NoError(t, err)
}

type steppingClock struct{ now time.Time }

func (c *steppingClock) Now() time.Time { return c.now }

type codecSink struct {
	codec    Codec
	ok, fail int
	lastErr  error
}

func (s *codecSink) record(err error) error {
	if err != nil {
		s.fail++
		s.lastErr = err
		return err
	}
	s.ok++
	return nil
}

func (s *codecSink) SendTransform(tf odometry.TransformStamped) error {
	_, err := s.codec.EncodeTransform(tf)
	return s.record(err)
}

func (s *codecSink) PublishOdometry(odom odometry.Odometry) error {
	_, err := s.codec.EncodeOdometry(odom)
	return s.record(err)
}

func TestJSONCodecKeepsPublishingAfterOverflow(t *testing.T) {
	robot := config.DefaultRobotConfig()
	clock := &steppingClock{now: time.Unix(1000, 0)}
	state := odometry.NewCommandState()
	decomposer := odometry.NewDecomposer(robot.WheelSeparation, state, clock)
	sink := &codecSink{codec: JSONCodec{}}
	loop := odometry.NewLoop(robot, state, clock, sink, sink, customlog.NewLogrusLoggerWithWriter("error", io.Discard))

	twist, err := DecodeTwist([]byte(`{"linear":{"x":1.7e308},"angular":{"z":1.7e308}}`))
	require.NoError(t, err)
	wheels := decomposer.ApplyTwist(twist)
	assert.True(t, math.IsInf(wheels.Right, 1))

	tick := func(n int) {
		for i := 0; i < n; i++ {
			clock.now = clock.now.Add(20 * time.Millisecond)
			loop.Tick()
		}
	}
	tick(3)
	decomposer.Apply(odometry.Command{})
	tick(3)

	odom, ok := loop.Latest()
	require.True(t, ok)
	assert.True(t, math.IsNaN(odom.Pose.Position.X))
	assert.Equal(t, 12, sink.ok)
	assert.Equal(t, 0, sink.fail, "last error: %v", sink.lastErr)
}

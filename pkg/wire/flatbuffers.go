package wire

import (
	"fmt"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/open-teleop/odometry/domain/odometry"
	"github.com/open-teleop/odometry/pkg/config"
	"github.com/open-teleop/odometry/pkg/flatbuffers/open_teleop/nav"
)

// minTableSize is the root offset plus the vtable offset of the smallest table.
const minTableSize = 8

// FlatbuffersCodec encodes records as nav.Odometry and nav.Transform tables.
type FlatbuffersCodec struct{}

func (FlatbuffersCodec) Name() string { return config.EncodingFlatbuffers }

func (FlatbuffersCodec) EncodeOdometry(odom odometry.Odometry) ([]byte, error) {
	builder := flatbuffers.NewBuilder(256)
	frameOffset := builder.CreateString(odom.Header.FrameID)
	childOffset := builder.CreateString(odom.ChildFrameID)

	p, q := odom.Pose.Position, odom.Pose.Orientation
	lin, ang := odom.Twist.Linear, odom.Twist.Angular

	nav.OdometryStart(builder)
	nav.OdometryAddTimestampNs(builder, odom.Header.Stamp.UnixNano())
	nav.OdometryAddFrameId(builder, frameOffset)
	nav.OdometryAddChildFrameId(builder, childOffset)
	nav.OdometryAddPositionX(builder, p.X)
	nav.OdometryAddPositionY(builder, p.Y)
	nav.OdometryAddPositionZ(builder, p.Z)
	nav.OdometryAddOrientationX(builder, q.X)
	nav.OdometryAddOrientationY(builder, q.Y)
	nav.OdometryAddOrientationZ(builder, q.Z)
	nav.OdometryAddOrientationW(builder, q.W)
	nav.OdometryAddLinearX(builder, lin.X)
	nav.OdometryAddLinearY(builder, lin.Y)
	nav.OdometryAddLinearZ(builder, lin.Z)
	nav.OdometryAddAngularX(builder, ang.X)
	nav.OdometryAddAngularY(builder, ang.Y)
	nav.OdometryAddAngularZ(builder, ang.Z)
	builder.Finish(nav.OdometryEnd(builder))

	return builder.FinishedBytes(), nil
}

func (FlatbuffersCodec) EncodeTransform(tf odometry.TransformStamped) ([]byte, error) {
	builder := flatbuffers.NewBuilder(160)
	frameOffset := builder.CreateString(tf.Header.FrameID)
	childOffset := builder.CreateString(tf.ChildFrameID)

	tr, rot := tf.Translation, tf.Rotation

	nav.TransformStart(builder)
	nav.TransformAddTimestampNs(builder, tf.Header.Stamp.UnixNano())
	nav.TransformAddFrameId(builder, frameOffset)
	nav.TransformAddChildFrameId(builder, childOffset)
	nav.TransformAddTranslationX(builder, tr.X)
	nav.TransformAddTranslationY(builder, tr.Y)
	nav.TransformAddTranslationZ(builder, tr.Z)
	nav.TransformAddRotationX(builder, rot.X)
	nav.TransformAddRotationY(builder, rot.Y)
	nav.TransformAddRotationZ(builder, rot.Z)
	nav.TransformAddRotationW(builder, rot.W)
	builder.Finish(nav.TransformEnd(builder))

	return builder.FinishedBytes(), nil
}

// EncodeTwistFlatbuffer builds a nav.Twist table.
func EncodeTwistFlatbuffer(twist odometry.TwistMsg) []byte {
	builder := flatbuffers.NewBuilder(64)
	nav.TwistStart(builder)
	nav.TwistAddLinearX(builder, twist.Linear.X)
	nav.TwistAddLinearY(builder, twist.Linear.Y)
	nav.TwistAddLinearZ(builder, twist.Linear.Z)
	nav.TwistAddAngularX(builder, twist.Angular.X)
	nav.TwistAddAngularY(builder, twist.Angular.Y)
	nav.TwistAddAngularZ(builder, twist.Angular.Z)
	builder.Finish(nav.TwistEnd(builder))
	return builder.FinishedBytes()
}

// DecodeFlatbufferTwist reads a nav.Twist table. Out-of-range offsets in a
// corrupt buffer are reported as ErrInvalidPayload.
func DecodeFlatbufferTwist(data []byte) (twist odometry.TwistMsg, err error) {
	if err := checkTable(data); err != nil {
		return twist, err
	}
	defer recoverInvalid(&err)

	t := nav.GetRootAsTwist(data, 0)
	twist = odometry.TwistMsg{
		Linear:  odometry.Vector3{X: t.LinearX(), Y: t.LinearY(), Z: t.LinearZ()},
		Angular: odometry.Vector3{X: t.AngularX(), Y: t.AngularY(), Z: t.AngularZ()},
	}
	return twist, nil
}

// DecodeFlatbufferOdometry reads a nav.Odometry table.
func DecodeFlatbufferOdometry(data []byte) (odom odometry.Odometry, err error) {
	if err := checkTable(data); err != nil {
		return odom, err
	}
	defer recoverInvalid(&err)

	o := nav.GetRootAsOdometry(data, 0)
	odom = odometry.Odometry{
		Header: odometry.Header{
			Stamp:   time.Unix(0, o.TimestampNs()),
			FrameID: string(o.FrameId()),
		},
		ChildFrameID: string(o.ChildFrameId()),
		Pose: odometry.PoseMsg{
			Position: odometry.Vector3{X: o.PositionX(), Y: o.PositionY(), Z: o.PositionZ()},
			Orientation: odometry.Quaternion{
				X: o.OrientationX(), Y: o.OrientationY(), Z: o.OrientationZ(), W: o.OrientationW(),
			},
		},
		Twist: odometry.TwistMsg{
			Linear:  odometry.Vector3{X: o.LinearX(), Y: o.LinearY(), Z: o.LinearZ()},
			Angular: odometry.Vector3{X: o.AngularX(), Y: o.AngularY(), Z: o.AngularZ()},
		},
	}
	return odom, nil
}

// DecodeFlatbufferTransform reads a nav.Transform table.
func DecodeFlatbufferTransform(data []byte) (tf odometry.TransformStamped, err error) {
	if err := checkTable(data); err != nil {
		return tf, err
	}
	defer recoverInvalid(&err)

	t := nav.GetRootAsTransform(data, 0)
	tf = odometry.TransformStamped{
		Header: odometry.Header{
			Stamp:   time.Unix(0, t.TimestampNs()),
			FrameID: string(t.FrameId()),
		},
		ChildFrameID: string(t.ChildFrameId()),
		Translation:  odometry.Vector3{X: t.TranslationX(), Y: t.TranslationY(), Z: t.TranslationZ()},
		Rotation: odometry.Quaternion{
			X: t.RotationX(), Y: t.RotationY(), Z: t.RotationZ(), W: t.RotationW(),
		},
	}
	return tf, nil
}

func checkTable(data []byte) error {
	if len(data) < minTableSize {
		return fmt.Errorf("%w: flatbuffer too short (%d bytes)", ErrInvalidPayload, len(data))
	}
	if root := flatbuffers.GetUOffsetT(data); int(root) >= len(data) {
		return fmt.Errorf("%w: root offset %d beyond buffer (%d bytes)", ErrInvalidPayload, root, len(data))
	}
	return nil
}

func recoverInvalid(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: corrupt flatbuffer: %v", ErrInvalidPayload, r)
	}
}

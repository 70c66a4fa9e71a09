package odometry

import (
	"math"
	"time"
)

// Vector3 defines a standard 3D vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is a unit rotation in (x, y, z, w) order.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// QuaternionFromYaw builds the rotation about +Z by yaw radians.
func QuaternionFromYaw(yaw float64) Quaternion {
	half := yaw / 2
	return Quaternion{Z: math.Sin(half), W: math.Cos(half)}
}

// Yaw extracts the rotation about +Z. The result is in (-pi, pi].
func (q Quaternion) Yaw() float64 {
	return math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
}

// Header carries the stamp and parent frame of a published record.
type Header struct {
	Stamp   time.Time `json:"stamp"`
	FrameID string    `json:"frame_id"`
}

// TransformStamped is the odom -> base_link transform broadcast every tick.
type TransformStamped struct {
	Header       Header     `json:"header"`
	ChildFrameID string     `json:"child_frame_id"`
	Translation  Vector3    `json:"translation"`
	Rotation     Quaternion `json:"rotation"`
}

// PoseMsg is a 3D position and orientation.
type PoseMsg struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// TwistMsg represents a velocity message, matching geometry_msgs/Twist.
type TwistMsg struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// Command extracts the planar command carried by a Twist.
func (t TwistMsg) Command() Command {
	return Command{Linear: t.Linear.X, Angular: t.Angular.Z}
}

// Odometry is the combined pose and twist record published every tick.
type Odometry struct {
	Header       Header   `json:"header"`
	ChildFrameID string   `json:"child_frame_id"`
	Pose         PoseMsg  `json:"pose"`
	Twist        TwistMsg `json:"twist"`
}

// Transform derives the transform record that accompanies an odometry record.
func (o Odometry) Transform() TransformStamped {
	return TransformStamped{
		Header:       o.Header,
		ChildFrameID: o.ChildFrameID,
		Translation:  o.Pose.Position,
		Rotation:     o.Pose.Orientation,
	}
}

package odometry

import "math"

// Pose is the planar pose of base_link in the odom frame. Heading is in
// radians and is never wrapped.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Twist is the instantaneous velocity derived on a tick.
type Twist struct {
	RobotLinearX float64 `json:"robot_linear_x"`
	RobotLinearY float64 `json:"robot_linear_y"` // always 0, the base is non-holonomic
	WorldLinearX float64 `json:"world_linear_x"`
	WorldLinearY float64 `json:"world_linear_y"`
	AngularZ     float64 `json:"angular_z"`
}

// Integrator accumulates wheel speeds into a pose with explicit Euler steps.
// It is not safe for concurrent use; the tick loop owns it.
type Integrator struct {
	wheelSeparation float64
	pose            Pose
}

// NewIntegrator creates an integrator starting at the origin.
func NewIntegrator(wheelSeparation float64) *Integrator {
	return &Integrator{wheelSeparation: wheelSeparation}
}

// Step advances the pose by dt seconds at the given wheel speeds. The world
// velocity is rotated with the heading from before the step.
func (i *Integrator) Step(w WheelVelocityPair, dt float64) (Pose, Twist) {
	vrx := (w.Right + w.Left) / 2
	vry := 0.0
	omega := (w.Right - w.Left) / i.wheelSeparation

	sin, cos := math.Sincos(i.pose.Heading)
	twist := Twist{
		RobotLinearX: vrx,
		RobotLinearY: vry,
		WorldLinearX: cos*vrx - sin*vry,
		WorldLinearY: sin*vrx + cos*vry,
		AngularZ:     omega,
	}

	i.pose.X += twist.WorldLinearX * dt
	i.pose.Y += twist.WorldLinearY * dt
	i.pose.Heading += omega * dt

	return i.pose, twist
}

// Pose returns the accumulated pose.
func (i *Integrator) Pose() Pose {
	return i.pose
}

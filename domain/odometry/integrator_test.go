package odometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntegratorStraightLineIndependentOfStepSize(t *testing.T) {
	wheels := Decompose(1.0, 0.0, testSeparation)
	const total = 2.5

	for _, steps := range []int{1, 10, 125, 1000} {
		integ := NewIntegrator(testSeparation)
		dt := total / float64(steps)
		var pose Pose
		for i := 0; i < steps; i++ {
			pose, _ = integ.Step(wheels, dt)
		}
		assert.InDelta(t, total, pose.X, 1e-9, "x with %d steps", steps)
		assert.InDelta(t, 0.0, pose.Y, 1e-12, "y with %d steps", steps)
		assert.Equal(t, 0.0, pose.Heading, "heading with %d steps", steps)
	}
}

func TestIntegratorRotationNearZeroLinear(t *testing.T) {
	const v = 1e-9
	wheels := Decompose(v, 1.0, testSeparation)
	integ := NewIntegrator(testSeparation)

	var pose Pose
	for i := 0; i < 100; i++ {
		pose, _ = integ.Step(wheels, 0.01)
	}

	assert.InDelta(t, 1.0, pose.Heading, 1e-9)
	assert.InDelta(t, 0.0, pose.X, 1e-8)
	assert.InDelta(t, 0.0, pose.Y, 1e-8)
}

func TestIntegratorRotationExactZeroLinear(t *testing.T) {
	wheels := Decompose(0, 1.0, testSeparation)
	integ := NewIntegrator(testSeparation)

	var pose Pose
	var twist Twist
	for i := 0; i < 100; i++ {
		pose, twist = integ.Step(wheels, 0.01)
	}

	// Only the right wheel turns, backwards: the base yaws at -w/2 and
	// drifts backwards along an arc instead of spinning in place.
	assert.InDelta(t, -0.5, pose.Heading, 1e-9)
	assert.InDelta(t, -0.5, twist.AngularZ, 1e-12)
	assert.InDelta(t, -testSeparation/4, twist.RobotLinearX, 1e-12)
	assert.Less(t, pose.X, -0.1)
	assert.Greater(t, math.Abs(pose.Y), 1e-3)
}

func TestIntegratorZeroDtIsNoOp(t *testing.T) {
	wheels := Decompose(0.7, 0.3, testSeparation)
	integ := NewIntegrator(testSeparation)

	before, beforeTwist := integ.Step(wheels, 0.5)
	after, afterTwist := integ.Step(wheels, 0)

	assert.Equal(t, before, after)
	assert.Equal(t, beforeTwist.RobotLinearX, afterTwist.RobotLinearX)
	assert.Equal(t, beforeTwist.WorldLinearX, afterTwist.WorldLinearX)
	assert.Equal(t, before, integ.Pose())
}

func TestIntegratorUsesPreviousHeadingForWorldVelocity(t *testing.T) {
	integ := NewIntegrator(testSeparation)

	// First step turns the base by pi/2 but moves along +X.
	wheels := Decompose(1, math.Pi/2, testSeparation)
	pose, twist := integ.Step(wheels, 1)
	assert.InDelta(t, 1.0, twist.WorldLinearX, 1e-12)
	assert.InDelta(t, 0.0, twist.WorldLinearY, 1e-12)
	assert.InDelta(t, 1.0, pose.X, 1e-12)
	assert.InDelta(t, math.Pi/2, pose.Heading, 1e-12)

	// Second step goes straight along the new heading, +Y.
	pose, twist = integ.Step(Decompose(1, 0, testSeparation), 1)
	assert.InDelta(t, 0.0, twist.WorldLinearX, 1e-12)
	assert.InDelta(t, 1.0, twist.WorldLinearY, 1e-12)
	assert.InDelta(t, 1.0, pose.X, 1e-12)
	assert.InDelta(t, 1.0, pose.Y, 1e-12)
	assert.Equal(t, 0.0, twist.RobotLinearY)
}

func TestIntegratorHeadingIsNotWrapped(t *testing.T) {
	integ := NewIntegrator(testSeparation)
	wheels := Decompose(1e-6, 2, testSeparation)

	var pose Pose
	for i := 0; i < 1000; i++ {
		pose, _ = integ.Step(wheels, 0.01)
	}
	assert.InDelta(t, 20.0, pose.Heading, 1e-9)
}

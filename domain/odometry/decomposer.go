// Package odometry turns velocity commands into dead-reckoning odometry for a
// differential-drive base.
package odometry

import (
	"sync"
	"time"
)

// Command is a planar velocity command: forward speed (m/s) and yaw rate (rad/s).
type Command struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

// WheelVelocityPair holds the linear speed (m/s) of each wheel.
type WheelVelocityPair struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Decompose maps a command onto wheel speeds for the given wheel separation.
//
// A pure rotation (linear == 0) drives only the right wheel, at
// -(angular*d/2), and leaves the left wheel at zero. This does not agree with
// the combined-motion formula as linear approaches zero; downstream consumers
// depend on it, so it is kept.
func Decompose(linear, angular, wheelSeparation float64) WheelVelocityPair {
	var w WheelVelocityPair
	switch {
	case linear == 0:
		w.Right = -(angular * wheelSeparation / 2)
	case angular == 0:
		w.Right = linear
		w.Left = linear
	default:
		w.Right = linear + angular*wheelSeparation/2
		w.Left = linear - angular*wheelSeparation/2
	}
	return w
}

// CommandSnapshot is a consistent copy of CommandState.
type CommandSnapshot struct {
	Command   Command           `json:"command"`
	Wheels    WheelVelocityPair `json:"wheels"`
	UpdatedAt time.Time         `json:"updated_at"`
	Count     int64             `json:"count"`
}

// CommandState is the latest command and its wheel speeds, shared between
// command sources and the tick loop. Writes are last-write-wins.
type CommandState struct {
	mu       sync.RWMutex
	snapshot CommandSnapshot
}

// NewCommandState returns a state holding the zero command.
func NewCommandState() *CommandState {
	return &CommandState{}
}

// Set overwrites the stored command and wheel speeds.
func (s *CommandState) Set(cmd Command, wheels WheelVelocityPair, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Command = cmd
	s.snapshot.Wheels = wheels
	s.snapshot.UpdatedAt = at
	s.snapshot.Count++
}

// Wheels returns the wheel speeds of the latest command.
func (s *CommandState) Wheels() WheelVelocityPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Wheels
}

// Snapshot returns a copy of the full state.
func (s *CommandState) Snapshot() CommandSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Decomposer applies incoming commands to a CommandState.
type Decomposer struct {
	wheelSeparation float64
	state           *CommandState
	clock           Clock
}

// NewDecomposer creates a decomposer writing into state.
func NewDecomposer(wheelSeparation float64, state *CommandState, clock Clock) *Decomposer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Decomposer{
		wheelSeparation: wheelSeparation,
		state:           state,
		clock:           clock,
	}
}

// Apply decomposes cmd and replaces the shared wheel speeds immediately.
func (d *Decomposer) Apply(cmd Command) WheelVelocityPair {
	wheels := Decompose(cmd.Linear, cmd.Angular, d.wheelSeparation)
	d.state.Set(cmd, wheels, d.clock.Now())
	return wheels
}

// ApplyTwist applies the planar part of a Twist.
func (d *Decomposer) ApplyTwist(t TwistMsg) WheelVelocityPair {
	return d.Apply(t.Command())
}

// State returns the state this decomposer writes to.
func (d *Decomposer) State() *CommandState {
	return d.state
}

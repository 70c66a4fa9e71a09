package config

import (
	"fmt"
	"math"
	"time"
)

// Reference kinematic values for the differential-drive base
const (
	DefaultWheelSeparation = 0.55 // meters between the wheel contact points
	DefaultRateHz          = 50
	DefaultOdomFrame       = "odom"
	DefaultBaseFrame       = "base_link"
)

// RobotConfig holds the kinematic constants and frame names
type RobotConfig struct {
	WheelSeparation float64 `yaml:"wheel_separation" json:"wheel_separation"`
	RateHz          float64 `yaml:"rate_hz" json:"rate_hz"`
	OdomFrame       string  `yaml:"odom_frame" json:"odom_frame"`
	BaseFrame       string  `yaml:"base_frame" json:"base_frame"`
}

// DefaultRobotConfig returns the reference robot configuration.
func DefaultRobotConfig() RobotConfig {
	var r RobotConfig
	r.applyDefaults()
	return r
}

func (r *RobotConfig) applyDefaults() {
	if r.WheelSeparation == 0 {
		r.WheelSeparation = DefaultWheelSeparation
	}
	if r.RateHz == 0 {
		r.RateHz = DefaultRateHz
	}
	if r.OdomFrame == "" {
		r.OdomFrame = DefaultOdomFrame
	}
	if r.BaseFrame == "" {
		r.BaseFrame = DefaultBaseFrame
	}
}

// Validate rejects values the integrator cannot run with.
func (r RobotConfig) Validate() error {
	if !(r.WheelSeparation > 0) || math.IsInf(r.WheelSeparation, 0) {
		return fmt.Errorf("invalid value in bootstrap config: robot.wheel_separation must be positive, got %v", r.WheelSeparation)
	}
	if !(r.RateHz > 0) || math.IsInf(r.RateHz, 0) {
		return fmt.Errorf("invalid value in bootstrap config: robot.rate_hz must be positive, got %v", r.RateHz)
	}
	if r.OdomFrame == r.BaseFrame {
		return fmt.Errorf("invalid value in bootstrap config: robot.odom_frame and robot.base_frame must differ (%q)", r.OdomFrame)
	}
	return nil
}

// Period returns the tick period derived from RateHz.
func (r RobotConfig) Period() time.Duration {
	return time.Duration(float64(time.Second) / r.RateHz)
}

// ReceiveTimeout returns the subscriber poll timeout.
func (z ZeroMQConfig) ReceiveTimeout() time.Duration {
	return time.Duration(z.ReceiveTimeoutMs) * time.Millisecond
}

package odometry

import (
	"context"
	"sync"
	"time"

	"github.com/open-teleop/odometry/pkg/config"
	customlog "github.com/open-teleop/odometry/pkg/log"
)

// TransformBroadcaster sends the odom -> base_link transform.
type TransformBroadcaster interface {
	SendTransform(tf TransformStamped) error
}

// OdometryPublisher sends the combined pose and twist record.
type OdometryPublisher interface {
	PublishOdometry(odom Odometry) error
}

// TickStat describes one completed tick.
type TickStat struct {
	Stamp         time.Time
	Dt            time.Duration
	Overrun       bool
	PublishErrors int
}

// TickObserver receives a TickStat after every tick.
type TickObserver interface {
	ObserveTick(stat TickStat)
}

// Loop runs the integrator at a fixed period and publishes each result.
type Loop struct {
	period      time.Duration
	odomFrame   string
	baseFrame   string
	commands    *CommandState
	integrator  *Integrator
	clock       Clock
	broadcaster TransformBroadcaster
	publisher   OdometryPublisher
	observer    TickObserver
	logger      customlog.Logger

	last time.Time

	mu     sync.RWMutex
	latest Odometry
	ticks  int64
}

// NewLoop creates a tick loop. The first tick integrates over the time since
// NewLoop was called.
func NewLoop(
	robot config.RobotConfig,
	commands *CommandState,
	clock Clock,
	broadcaster TransformBroadcaster,
	publisher OdometryPublisher,
	logger customlog.Logger,
) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		period:      robot.Period(),
		odomFrame:   robot.OdomFrame,
		baseFrame:   robot.BaseFrame,
		commands:    commands,
		integrator:  NewIntegrator(robot.WheelSeparation),
		clock:       clock,
		broadcaster: broadcaster,
		publisher:   publisher,
		logger:      logger,
		last:        clock.Now(),
	}
}

// SetObserver registers the tick observer. Call before Run.
func (l *Loop) SetObserver(o TickObserver) {
	l.observer = o
}

// Period returns the nominal tick period.
func (l *Loop) Period() time.Duration {
	return l.period
}

// Tick integrates the latest wheel speeds over the elapsed wall-clock time and
// publishes the transform and odometry records. It always publishes, even
// when no new command has arrived.
func (l *Loop) Tick() Odometry {
	now := l.clock.Now()
	elapsed := now.Sub(l.last)
	l.last = now

	pose, twist := l.integrator.Step(l.commands.Wheels(), elapsed.Seconds())

	orientation := QuaternionFromYaw(pose.Heading)
	odom := Odometry{
		Header:       Header{Stamp: now, FrameID: l.odomFrame},
		ChildFrameID: l.baseFrame,
		Pose: PoseMsg{
			Position:    Vector3{X: pose.X, Y: pose.Y},
			Orientation: orientation,
		},
		Twist: TwistMsg{
			Linear:  Vector3{X: twist.RobotLinearX, Y: twist.RobotLinearY},
			Angular: Vector3{Z: twist.AngularZ},
		},
	}

	publishErrors := 0
	if l.broadcaster != nil {
		if err := l.broadcaster.SendTransform(odom.Transform()); err != nil {
			publishErrors++
			l.logger.Warnf("Failed to broadcast transform: %v", err)
		}
	}
	if l.publisher != nil {
		if err := l.publisher.PublishOdometry(odom); err != nil {
			publishErrors++
			l.logger.Warnf("Failed to publish odometry: %v", err)
		}
	}

	l.mu.Lock()
	l.latest = odom
	l.ticks++
	l.mu.Unlock()

	l.logger.Debugf("Tick dt=%v x=%.4f y=%.4f heading=%.4f v=%.3f w=%.3f",
		elapsed, pose.X, pose.Y, pose.Heading, twist.RobotLinearX, twist.AngularZ)

	if l.observer != nil {
		l.observer.ObserveTick(TickStat{
			Stamp:         now,
			Dt:            elapsed,
			Overrun:       elapsed > 2*l.period,
			PublishErrors: publishErrors,
		})
	}
	return odom
}

// Run ticks every period until ctx is done. Missed ticks are dropped rather
// than queued; the next tick covers the full elapsed time.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	l.logger.Infof("Odometry loop started (period %v, frames %s -> %s)", l.period, l.odomFrame, l.baseFrame)
	for {
		select {
		case <-ctx.Done():
			l.logger.Infof("Odometry loop stopped after %d ticks", l.Ticks())
			return ctx.Err()
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Latest returns the most recently published odometry record. ok is false
// before the first tick.
func (l *Loop) Latest() (odom Odometry, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.latest, l.ticks > 0
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ticks
}

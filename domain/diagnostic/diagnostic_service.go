package diagnostic

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/odometry/domain/odometry"
)

// LoopMetrics represents the health of the odometry loop and its inputs
type LoopMetrics struct {
	Timestamp        time.Time        `json:"timestamp"`
	Ticks            int64            `json:"ticks"`
	LastDtMs         float64          `json:"last_dt_ms"`
	MaxDtMs          float64          `json:"max_dt_ms"`
	AvgDtMs          float64          `json:"avg_dt_ms"`
	Overruns         int64            `json:"overruns"` // ticks that took more than two periods
	PublishErrors    int64            `json:"publish_errors"`
	CommandsReceived map[string]int64 `json:"commands_received"`
	DecodeErrors     map[string]int64 `json:"decode_errors"`
	LastCommandAt    time.Time        `json:"last_command_at"`
	LastDecodeError  string           `json:"last_decode_error,omitempty"`
}

// DiagnosticService collects loop and command statistics
type DiagnosticService struct {
	mu      sync.RWMutex
	metrics LoopMetrics
	totalDt time.Duration
	clock   odometry.Clock
}

// NewDiagnosticService creates a new diagnostic service instance
func NewDiagnosticService(clock odometry.Clock) *DiagnosticService {
	if clock == nil {
		clock = odometry.SystemClock{}
	}
	return &DiagnosticService{
		metrics: LoopMetrics{
			Timestamp:        clock.Now(),
			CommandsReceived: map[string]int64{},
			DecodeErrors:     map[string]int64{},
		},
		clock: clock,
	}
}

// ObserveTick implements odometry.TickObserver
func (s *DiagnosticService) ObserveTick(stat odometry.TickStat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &s.metrics
	m.Ticks++
	m.Timestamp = stat.Stamp
	s.totalDt += stat.Dt

	dtMs := durationMs(stat.Dt)
	m.LastDtMs = dtMs
	if dtMs > m.MaxDtMs {
		m.MaxDtMs = dtMs
	}
	m.AvgDtMs = durationMs(s.totalDt) / float64(m.Ticks)
	if stat.Overrun {
		m.Overruns++
	}
	m.PublishErrors += int64(stat.PublishErrors)
}

// RecordCommand counts a command accepted from source
func (s *DiagnosticService) RecordCommand(source string) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.CommandsReceived[source]++
	s.metrics.LastCommandAt = now
}

// RecordDecodeError counts a command from source that could not be decoded
func (s *DiagnosticService) RecordDecodeError(source string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.DecodeErrors[source]++
	if err != nil {
		s.metrics.LastDecodeError = err.Error()
	}
}

// GetMetrics returns a copy of the current metrics
func (s *DiagnosticService) GetMetrics() LoopMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.metrics
	m.CommandsReceived = copyCounts(s.metrics.CommandsReceived)
	m.DecodeErrors = copyCounts(s.metrics.DecodeErrors)
	return m
}

// GetMetricsHandler handles API requests for loop metrics
func (s *DiagnosticService) GetMetricsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"metrics": s.GetMetrics(),
	})
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

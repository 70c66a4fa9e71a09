package api

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/open-teleop/odometry/domain/odometry"
	"github.com/open-teleop/odometry/domain/teleop"
	customlog "github.com/open-teleop/odometry/pkg/log"
	"github.com/open-teleop/odometry/pkg/wire"
)

// ControlWebSocketHandler handles incoming WebSocket messages for robot control.
// Text frames carry JSON Twist commands, binary frames FlatBuffers Twist tables.
func ControlWebSocketHandler(conn *websocket.Conn, logger customlog.Logger, service *teleop.TeleopService) {
	logger.Infof("Control WebSocket connected: %s", conn.RemoteAddr())
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			logClose(logger, "Control", err)
			break
		}

		wheels, err := handleControlFrame(service, mt, msg)
		if err != nil {
			logger.Warnf("Dropping control WS message: %v", err)
			continue
		}
		logger.Debugf("Control WS command applied -> left=%.3f right=%.3f", wheels.Left, wheels.Right)
	}
	logger.Infof("Control WebSocket disconnected: %s", conn.RemoteAddr())
}

// handleControlFrame decodes one control frame and applies it
func handleControlFrame(service *teleop.TeleopService, messageType int, msg []byte) (odometry.WheelVelocityPair, error) {
	if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
		return odometry.WheelVelocityPair{}, fmt.Errorf("unsupported message type %d", messageType)
	}

	twist, err := wire.DecodeTwist(msg)
	if err != nil {
		service.RecordDecodeError(teleop.SourceWebSocket, err)
		return odometry.WheelVelocityPair{}, err
	}
	return service.SendTwist(teleop.SourceWebSocket, twist), nil
}

// OdometryWebSocketHandler pushes every new odometry record to the client as JSON
func OdometryWebSocketHandler(conn *websocket.Conn, logger customlog.Logger, source OdometrySource, interval time.Duration) {
	logger.Infof("Odometry WebSocket connected: %s", conn.RemoteAddr())

	// Reads only detect the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logClose(logger, "Odometry", err)
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastStamp time.Time
	for {
		select {
		case <-done:
			logger.Infof("Odometry WebSocket disconnected: %s", conn.RemoteAddr())
			return
		case <-ticker.C:
			odom, ok := nextRecord(source, lastStamp)
			if !ok {
				continue
			}
			if err := conn.WriteJSON(odom); err != nil {
				logger.Infof("Odometry WS write failed, closing: %v", err)
				return
			}
			lastStamp = odom.Header.Stamp
		}
	}
}

// nextRecord returns the latest record if it is newer than lastStamp
func nextRecord(source OdometrySource, lastStamp time.Time) (odometry.Odometry, bool) {
	odom, ok := source.Latest()
	if !ok || !odom.Header.Stamp.After(lastStamp) {
		return odometry.Odometry{}, false
	}
	return odom, true
}

func logClose(logger customlog.Logger, name string, err error) {
	switch {
	case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure):
		logger.Errorf("%s WS read error: %v", name, err)
	case errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ECONNRESET):
		logger.Infof("%s WS connection closed normally.", name)
	default:
		logger.Infof("%s WS connection closed: %v", name, err)
	}
}

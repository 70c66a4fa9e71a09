package zeromq

import (
	"fmt"

	"github.com/open-teleop/odometry/domain/odometry"
	"github.com/open-teleop/odometry/pkg/wire"
)

// MessagePublisher sends one payload on a topic
type MessagePublisher interface {
	PublishMessage(topic string, data []byte) error
}

// Ensure OdometryPublisher satisfies the tick loop collaborators
var (
	_ odometry.TransformBroadcaster = (*OdometryPublisher)(nil)
	_ odometry.OdometryPublisher    = (*OdometryPublisher)(nil)
)

// OdometryPublisher encodes tick output and publishes it on the odom and tf topics
type OdometryPublisher struct {
	publisher MessagePublisher
	codec     wire.Codec
	odomTopic string
	tfTopic   string
}

// NewOdometryPublisher creates a publisher writing through p
func NewOdometryPublisher(p MessagePublisher, codec wire.Codec, odomTopic, tfTopic string) *OdometryPublisher {
	return &OdometryPublisher{
		publisher: p,
		codec:     codec,
		odomTopic: odomTopic,
		tfTopic:   tfTopic,
	}
}

// SendTransform publishes the odom -> base_link transform
func (p *OdometryPublisher) SendTransform(tf odometry.TransformStamped) error {
	data, err := p.codec.EncodeTransform(tf)
	if err != nil {
		return err
	}
	if err := p.publisher.PublishMessage(p.tfTopic, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.tfTopic, err)
	}
	return nil
}

// PublishOdometry publishes the combined pose and twist record
func (p *OdometryPublisher) PublishOdometry(odom odometry.Odometry) error {
	data, err := p.codec.EncodeOdometry(odom)
	if err != nil {
		return err
	}
	if err := p.publisher.PublishMessage(p.odomTopic, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.odomTopic, err)
	}
	return nil
}

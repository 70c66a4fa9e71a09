package nav

import flatbuffers "github.com/google/flatbuffers/go"

const odometryNumFields = 16

type Odometry struct {
	_tab flatbuffers.Table
}

func GetRootAsOdometry(buf []byte, offset flatbuffers.UOffsetT) *Odometry {
	return &Odometry{_tab: rootTable(buf, offset)}
}

func (rcv *Odometry) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Odometry) TimestampNs() int64    { return int64Field(&rcv._tab, 0) }
func (rcv *Odometry) FrameId() []byte       { return stringField(&rcv._tab, 1) }
func (rcv *Odometry) ChildFrameId() []byte  { return stringField(&rcv._tab, 2) }
func (rcv *Odometry) PositionX() float64    { return float64Field(&rcv._tab, 3) }
func (rcv *Odometry) PositionY() float64    { return float64Field(&rcv._tab, 4) }
func (rcv *Odometry) PositionZ() float64    { return float64Field(&rcv._tab, 5) }
func (rcv *Odometry) OrientationX() float64 { return float64Field(&rcv._tab, 6) }
func (rcv *Odometry) OrientationY() float64 { return float64Field(&rcv._tab, 7) }
func (rcv *Odometry) OrientationZ() float64 { return float64Field(&rcv._tab, 8) }
func (rcv *Odometry) OrientationW() float64 { return float64Field(&rcv._tab, 9) }
func (rcv *Odometry) LinearX() float64      { return float64Field(&rcv._tab, 10) }
func (rcv *Odometry) LinearY() float64      { return float64Field(&rcv._tab, 11) }
func (rcv *Odometry) LinearZ() float64      { return float64Field(&rcv._tab, 12) }
func (rcv *Odometry) AngularX() float64     { return float64Field(&rcv._tab, 13) }
func (rcv *Odometry) AngularY() float64     { return float64Field(&rcv._tab, 14) }
func (rcv *Odometry) AngularZ() float64     { return float64Field(&rcv._tab, 15) }

func OdometryStart(builder *flatbuffers.Builder) {
	builder.StartObject(odometryNumFields)
}
func OdometryAddTimestampNs(builder *flatbuffers.Builder, v int64) {
	builder.PrependInt64Slot(0, v, 0)
}
func OdometryAddFrameId(builder *flatbuffers.Builder, v flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, v, 0)
}
func OdometryAddChildFrameId(builder *flatbuffers.Builder, v flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(2, v, 0)
}
func OdometryAddPositionX(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(3, v, 0.0)
}
func OdometryAddPositionY(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(4, v, 0.0)
}
func OdometryAddPositionZ(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(5, v, 0.0)
}
func OdometryAddOrientationX(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(6, v, 0.0)
}
func OdometryAddOrientationY(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(7, v, 0.0)
}
func OdometryAddOrientationZ(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(8, v, 0.0)
}
func OdometryAddOrientationW(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(9, v, 0.0)
}
func OdometryAddLinearX(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(10, v, 0.0)
}
func OdometryAddLinearY(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(11, v, 0.0)
}
func OdometryAddLinearZ(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(12, v, 0.0)
}
func OdometryAddAngularX(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(13, v, 0.0)
}
func OdometryAddAngularY(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(14, v, 0.0)
}
func OdometryAddAngularZ(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(15, v, 0.0)
}
func OdometryEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

package nav

import flatbuffers "github.com/google/flatbuffers/go"

const twistNumFields = 6

type Twist struct {
	_tab flatbuffers.Table
}

func GetRootAsTwist(buf []byte, offset flatbuffers.UOffsetT) *Twist {
	return &Twist{_tab: rootTable(buf, offset)}
}

func (rcv *Twist) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Twist) LinearX() float64  { return float64Field(&rcv._tab, 0) }
func (rcv *Twist) LinearY() float64  { return float64Field(&rcv._tab, 1) }
func (rcv *Twist) LinearZ() float64  { return float64Field(&rcv._tab, 2) }
func (rcv *Twist) AngularX() float64 { return float64Field(&rcv._tab, 3) }
func (rcv *Twist) AngularY() float64 { return float64Field(&rcv._tab, 4) }
func (rcv *Twist) AngularZ() float64 { return float64Field(&rcv._tab, 5) }

func TwistStart(builder *flatbuffers.Builder) {
	builder.StartObject(twistNumFields)
}
func TwistAddLinearX(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(0, v, 0.0)
}
func TwistAddLinearY(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(1, v, 0.0)
}
func TwistAddLinearZ(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(2, v, 0.0)
}
func TwistAddAngularX(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(3, v, 0.0)
}
func TwistAddAngularY(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(4, v, 0.0)
}
func TwistAddAngularZ(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(5, v, 0.0)
}
func TwistEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

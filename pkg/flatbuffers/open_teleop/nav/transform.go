package nav

import flatbuffers "github.com/google/flatbuffers/go"

const transformNumFields = 10

type Transform struct {
	_tab flatbuffers.Table
}

func GetRootAsTransform(buf []byte, offset flatbuffers.UOffsetT) *Transform {
	return &Transform{_tab: rootTable(buf, offset)}
}

func (rcv *Transform) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Transform) TimestampNs() int64    { return int64Field(&rcv._tab, 0) }
func (rcv *Transform) FrameId() []byte       { return stringField(&rcv._tab, 1) }
func (rcv *Transform) ChildFrameId() []byte  { return stringField(&rcv._tab, 2) }
func (rcv *Transform) TranslationX() float64 { return float64Field(&rcv._tab, 3) }
func (rcv *Transform) TranslationY() float64 { return float64Field(&rcv._tab, 4) }
func (rcv *Transform) TranslationZ() float64 { return float64Field(&rcv._tab, 5) }
func (rcv *Transform) RotationX() float64    { return float64Field(&rcv._tab, 6) }
func (rcv *Transform) RotationY() float64    { return float64Field(&rcv._tab, 7) }
func (rcv *Transform) RotationZ() float64    { return float64Field(&rcv._tab, 8) }
func (rcv *Transform) RotationW() float64    { return float64Field(&rcv._tab, 9) }

func TransformStart(builder *flatbuffers.Builder) {
	builder.StartObject(transformNumFields)
}
func TransformAddTimestampNs(builder *flatbuffers.Builder, v int64) {
	builder.PrependInt64Slot(0, v, 0)
}
func TransformAddFrameId(builder *flatbuffers.Builder, v flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, v, 0)
}
func TransformAddChildFrameId(builder *flatbuffers.Builder, v flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(2, v, 0)
}
func TransformAddTranslationX(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(3, v, 0.0)
}
func TransformAddTranslationY(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(4, v, 0.0)
}
func TransformAddTranslationZ(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(5, v, 0.0)
}
func TransformAddRotationX(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(6, v, 0.0)
}
func TransformAddRotationY(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(7, v, 0.0)
}
func TransformAddRotationZ(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(8, v, 0.0)
}
func TransformAddRotationW(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(9, v, 0.0)
}
func TransformEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

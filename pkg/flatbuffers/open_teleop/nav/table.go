// Package nav holds the FlatBuffers accessors for the schema in
// pkg/flatbuffers/nav.fbs.
package nav

import flatbuffers "github.com/google/flatbuffers/go"

// vtableSlot converts a field index into its vtable offset.
func vtableSlot(field int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT(4 + 2*field)
}

func float64Field(t *flatbuffers.Table, field int) float64 {
	o := flatbuffers.UOffsetT(t.Offset(vtableSlot(field)))
	if o != 0 {
		return t.GetFloat64(o + t.Pos)
	}
	return 0.0
}

func int64Field(t *flatbuffers.Table, field int) int64 {
	o := flatbuffers.UOffsetT(t.Offset(vtableSlot(field)))
	if o != 0 {
		return t.GetInt64(o + t.Pos)
	}
	return 0
}

func stringField(t *flatbuffers.Table, field int) []byte {
	o := flatbuffers.UOffsetT(t.Offset(vtableSlot(field)))
	if o != 0 {
		return t.ByteVector(o + t.Pos)
	}
	return nil
}

func rootTable(buf []byte, offset flatbuffers.UOffsetT) flatbuffers.Table {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	return flatbuffers.Table{Bytes: buf, Pos: n + offset}
}

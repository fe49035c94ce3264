package record

import (
	"math"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/signaltype"
)

// decodeSlot reads one value of native type nt (itemSize bytes wide for
// Text/Bytes) from buf, which must be exactly the value's width, using
// engine for multi-byte fields.
func decodeSlot(buf []byte, nt signaltype.NativeType, itemSize int, engine endian.EndianEngine) (raw uint64, f float64, text string, bts []byte) {
	switch nt {
	case signaltype.NativeUint8, signaltype.NativeInt8:
		return uint64(buf[0]), 0, "", nil
	case signaltype.NativeUint16, signaltype.NativeInt16:
		return uint64(engine.Uint16(buf)), 0, "", nil
	case signaltype.NativeUint32, signaltype.NativeInt32:
		return uint64(engine.Uint32(buf)), 0, "", nil
	case signaltype.NativeUint64, signaltype.NativeInt64:
		return engine.Uint64(buf), 0, "", nil
	case signaltype.NativeFloat32:
		bits := engine.Uint32(buf)
		return 0, float64(math.Float32frombits(bits)), "", nil
	case signaltype.NativeFloat64:
		bits := engine.Uint64(buf)
		return 0, math.Float64frombits(bits), "", nil
	case signaltype.NativeText:
		return 0, 0, trimNUL(buf), nil
	default: // NativeBytes
		cp := make([]byte, len(buf))
		copy(cp, buf)
		return 0, 0, "", cp
	}
}

func trimNUL(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}

	return string(b[:n])
}

// decodeStrided decodes n values of native type nt from data, starting at
// offset and stepping by stride bytes between records.
func decodeStrided(data []byte, offset, stride, n int, nt signaltype.NativeType, itemSize int, engine endian.EndianEngine) *Column {
	col := NewColumn("", nt, itemSize, n)

	width := itemSize
	switch nt {
	case signaltype.NativeUint8, signaltype.NativeInt8:
		width = 1
	case signaltype.NativeUint16, signaltype.NativeInt16:
		width = 2
	case signaltype.NativeUint32, signaltype.NativeInt32, signaltype.NativeFloat32:
		width = 4
	case signaltype.NativeUint64, signaltype.NativeInt64, signaltype.NativeFloat64:
		width = 8
	}

	pos := offset
	for i := 0; i < n; i++ {
		buf := data[pos : pos+width]
		raw, f, text, bts := decodeSlot(buf, nt, itemSize, engine)

		switch nt {
		case signaltype.NativeFloat32, signaltype.NativeFloat64:
			col.Float[i] = f
		case signaltype.NativeText:
			col.Text[i] = text
		case signaltype.NativeBytes:
			col.Bytes[i] = bts
		default:
			col.Raw[i] = raw
		}

		pos += stride
	}

	return col
}

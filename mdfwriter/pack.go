package mdfwriter

import (
	"fmt"
	"math"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/signaltype"
)

// dataTypeCode maps a native storage type to the writer's signalDataType
// tag: 0=uint, 1=int, 2=f32, 3=f64, 7=text.
func dataTypeCode(nt signaltype.NativeType) (uint16, error) {
	switch nt {
	case signaltype.NativeUint8, signaltype.NativeUint16, signaltype.NativeUint32, signaltype.NativeUint64:
		return 0, nil
	case signaltype.NativeInt8, signaltype.NativeInt16, signaltype.NativeInt32, signaltype.NativeInt64:
		return 1, nil
	case signaltype.NativeFloat32:
		return 2, nil
	case signaltype.NativeFloat64:
		return 3, nil
	case signaltype.NativeText:
		return 7, nil
	default:
		return 0, fmt.Errorf("%w: %v", errs.ErrUnsupportedDtype, nt)
	}
}

// numericItemSize returns the on-disk width in bytes of one value of nt.
// Text is sized by the caller (its width is data-dependent, not type-fixed).
func numericItemSize(nt signaltype.NativeType) int {
	return nt.Size(0)
}

// encodeNumeric writes one physical value v into dst (len(dst) ==
// numericItemSize(nt)) as nt, per engine's byte order. Values that don't fit
// nt's range truncate the same way a numeric conversion narrowing would.
func encodeNumeric(dst []byte, nt signaltype.NativeType, engine endian.EndianEngine, v float64) {
	switch nt {
	case signaltype.NativeUint8:
		dst[0] = byte(uint8(v))
	case signaltype.NativeUint16:
		engine.PutUint16(dst, uint16(v))
	case signaltype.NativeUint32:
		engine.PutUint32(dst, uint32(v))
	case signaltype.NativeUint64:
		engine.PutUint64(dst, uint64(v))
	case signaltype.NativeInt8:
		dst[0] = byte(int8(v))
	case signaltype.NativeInt16:
		engine.PutUint16(dst, uint16(int16(v)))
	case signaltype.NativeInt32:
		engine.PutUint32(dst, uint32(int32(v)))
	case signaltype.NativeInt64:
		engine.PutUint64(dst, uint64(int64(v)))
	case signaltype.NativeFloat32:
		engine.PutUint32(dst, math.Float32bits(float32(v)))
	case signaltype.NativeFloat64:
		engine.PutUint64(dst, math.Float64bits(v))
	}
}

// encodeText writes s into dst, left-aligned, NUL-padding any remaining
// bytes.
func encodeText(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

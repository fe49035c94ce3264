package blocks

import (
	"fmt"
	"math"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
)

// NoConversion is the conversionType value meaning "no conversion, raw
// value is already physical", written by the writer for every channel since
// it never emits a non-trivial conversion formula.
const NoConversion uint16 = 65535

// CCBlock is the fixed 46-byte prefix of the conversion block: physical
// value range and unit. Real CC blocks carry additional conversion-specific
// parameters after this prefix (the polynomial coefficients, table pairs,
// or formula text described by the format's conversion-type tag); decoding
// those belongs to the descriptor package, which already receives them
// pre-parsed from the metadata parser. This type is what the writer emits,
// since it only ever writes conversionType 65535 (no trailing parameters).
type CCBlock struct {
	ValueRangeValid uint16
	Min             float64
	Max             float64
	Unit            [20]byte
	ConversionType  uint16
	ExtraSize       uint16
}

func (b *CCBlock) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != CCBlockSize {
		return fmt.Errorf("%w: CCBlock requires %d bytes, got %d", errs.ErrInvalidHeaderSize, CCBlockSize, len(data))
	}

	if string(data[0:2]) != BlockIDCC {
		return fmt.Errorf("%w: expected %q, got %q", errs.ErrInvalidBlockID, BlockIDCC, data[0:2])
	}

	b.ValueRangeValid = engine.Uint16(data[4:6])
	b.Min = math.Float64frombits(engine.Uint64(data[6:14]))
	b.Max = math.Float64frombits(engine.Uint64(data[14:22]))
	copy(b.Unit[:], data[22:42])
	b.ConversionType = engine.Uint16(data[42:44])
	b.ExtraSize = engine.Uint16(data[44:46])

	return nil
}

func (b *CCBlock) Bytes(engine endian.EndianEngine) []byte {
	out := make([]byte, CCBlockSize)
	copy(out[0:2], BlockIDCC)
	engine.PutUint16(out[2:4], CCBlockSize)
	engine.PutUint16(out[4:6], b.ValueRangeValid)
	engine.PutUint64(out[6:14], math.Float64bits(b.Min))
	engine.PutUint64(out[14:22], math.Float64bits(b.Max))
	copy(out[22:42], b.Unit[:])
	engine.PutUint16(out[42:44], b.ConversionType)
	engine.PutUint16(out[44:46], b.ExtraSize)

	return out
}

// UnitString returns the NUL-terminated Unit field as a trimmed Go string.
func (b *CCBlock) UnitString() string { return trimNUL(b.Unit[:]) }

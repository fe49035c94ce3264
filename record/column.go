// Package record implements the sorted and unsorted block readers
// (components D and E) and the bit-repack post-step (component F): turning
// a raw record stream into per-channel columns using a schema.RecordSchema.
package record

import (
	"github.com/arloliu/mdf/internal/pool"
	"github.com/arloliu/mdf/signaltype"
)

// Column is one channel's decoded raw samples, prior to conversion. Integer
// values (any width, signed or unsigned) are stored as their raw bit
// pattern widened to uint64; IntAt/UintAt reinterpret per NativeType.
// Floats are widened to float64. Text and byte-array channels use their own
// slices.
//
// Columns built by NewColumn (the sorted reader and Repack) source Float
// and Text from the internal/pool slice pools: the decoded sample count is
// known upfront (the channel group's record count), so they come back
// pre-sized rather than grown by repeated append. The unsorted reader's
// columns use plain slices, and Release does nothing for them. Once a Column's data has been copied out (e.g. by
// convert.Apply), call Release to return the backing arrays for reuse.
type Column struct {
	Name       string
	NativeType signaltype.NativeType
	ItemSize   int // byte width of one Text/Bytes element

	Raw   []uint64
	Float []float64
	Text  []string
	Bytes [][]byte

	releaseFloat func()
	releaseText  func()
}

// NewColumn allocates a Column of the given native type sized for n samples.
func NewColumn(name string, nt signaltype.NativeType, itemSize, n int) *Column {
	c := &Column{Name: name, NativeType: nt, ItemSize: itemSize}

	switch nt {
	case signaltype.NativeFloat32, signaltype.NativeFloat64:
		c.Float, c.releaseFloat = pool.GetFloat64Slice(n)
	case signaltype.NativeText:
		c.Text, c.releaseText = pool.GetStringSlice(n)
	case signaltype.NativeBytes:
		c.Bytes = make([][]byte, n)
	default:
		c.Raw = make([]uint64, n)
	}

	return c
}

// Release returns this column's pool-backed slices (Float/Text) to
// internal/pool for reuse. Call it once the column's values have been fully
// consumed elsewhere (converted into a PhysicalColumn, for instance); the
// column must not be read or written after Release.
func (c *Column) Release() {
	if c.releaseFloat != nil {
		c.releaseFloat()
		c.releaseFloat = nil
		c.Float = nil
	}
	if c.releaseText != nil {
		c.releaseText()
		c.releaseText = nil
		c.Text = nil
	}
}

// Len returns the number of decoded samples.
func (c *Column) Len() int {
	switch c.NativeType {
	case signaltype.NativeFloat32, signaltype.NativeFloat64:
		return len(c.Float)
	case signaltype.NativeText:
		return len(c.Text)
	case signaltype.NativeBytes:
		return len(c.Bytes)
	default:
		return len(c.Raw)
	}
}

// IntAt returns the i'th value as a sign-extended int64, valid for signed
// integer native types.
func (c *Column) IntAt(i int) int64 {
	v := c.Raw[i]

	switch c.NativeType {
	case signaltype.NativeInt8:
		return int64(int8(v))
	case signaltype.NativeInt16:
		return int64(int16(v))
	case signaltype.NativeInt32:
		return int64(int32(v))
	default:
		return int64(v)
	}
}

// UintAt returns the i'th value as its raw unsigned bit pattern.
func (c *Column) UintAt(i int) uint64 { return c.Raw[i] }

// FloatAt returns the i'th value as a float64, valid for float native types.
func (c *Column) FloatAt(i int) float64 { return c.Float[i] }

// NumericAt returns the i'th value as a float64 regardless of underlying
// integer/float storage, the representation the conversion engine consumes.
func (c *Column) NumericAt(i int) float64 {
	switch c.NativeType {
	case signaltype.NativeFloat32, signaltype.NativeFloat64:
		return c.Float[i]
	case signaltype.NativeInt8, signaltype.NativeInt16, signaltype.NativeInt32, signaltype.NativeInt64:
		return float64(c.IntAt(i))
	default:
		return float64(c.UintAt(i))
	}
}

package record

import (
	"fmt"

	"github.com/arloliu/mdf/descriptor"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/schema"
	"github.com/arloliu/mdf/signaltype"
)

// repackable reports whether t is one of the signal types the bit-repack
// post-step corrects: unsigned/signed integers, in any of the three endianness
// groupings. Float and text/byte-array types with a non-whole-byte width
// are invalid and only diagnosed.
func repackable(t signaltype.SignalType) bool {
	switch t {
	case signaltype.TypeUnsignedByteOrder, signaltype.TypeSignedByteOrder,
		signaltype.TypeUnsignedBigEndian, signaltype.TypeSignedBigEndian,
		signaltype.TypeUnsignedLittleEndian, signaltype.TypeSignedLittleEndian:
		return true
	default:
		return false
	}
}

// Repack extracts ch's bit-packed value out of a shared slot column by
// shifting and masking, per §4.F: (v >> bit_offset) & ((1<<bit_count)-1).
// slotCol holds the raw widened-integer values of the storage slot ch aliases.
func Repack(slotCol *Column, ch *descriptor.ChannelDescriptor) (*Column, error) {
	if !repackable(ch.SignalType) {
		return nil, fmt.Errorf("%w: channel %q has non-whole-byte width with signal type %d",
			errs.ErrUnsupportedSignalType, ch.Name, ch.SignalType)
	}

	mask := uint64(1)<<uint(ch.BitCount) - 1
	out := NewColumn(ch.Name, ch.NativeType, ch.NBytes, slotCol.Len())

	for i := 0; i < slotCol.Len(); i++ {
		v := (slotCol.UintAt(i) >> uint(ch.BitOffset)) & mask
		out.Raw[i] = v
	}

	return out, nil
}

// Finalize expands the raw per-slot columns decoded by the sorted/unsorted
// readers into one column per channel descriptor, applying Repack to
// channels that alias a shared bit-packed slot. Diagnostics for channels
// whose bit layout can't be corrected are returned alongside the columns
// instead of aborting the whole data group.
func Finalize(s *schema.RecordSchema, slotColumns map[string]*Column) (map[string]*Column, []error) {
	out := make(map[string]*Column, len(s.Channels))
	var diagnostics []error

	for i := range s.Channels {
		ch := &s.Channels[i]
		slotIdx, ok := s.RecordToSlot[ch.Name]
		if !ok {
			continue
		}

		slotName := s.NativeSchema[slotIdx].Name
		slotCol, ok := slotColumns[slotName]
		if !ok {
			continue
		}

		if !ch.BitPacked() {
			out[ch.Name] = slotCol

			continue
		}

		repacked, err := Repack(slotCol, ch)
		if err != nil {
			diagnostics = append(diagnostics, err)
			out[ch.Name] = slotCol // leave uncorrected, per the format's error policy

			continue
		}

		out[ch.Name] = repacked
	}

	return out, diagnostics
}

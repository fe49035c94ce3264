package record

import (
	"bytes"
	"testing"

	"github.com/arloliu/mdf/descriptor"
	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/schema"
	"github.com/arloliu/mdf/signaltype"
	"github.com/stretchr/testify/require"
)

func numericChannel(name string, byteOffset, bitCount int, st signaltype.SignalType, nt signaltype.NativeType, master bool) descriptor.ChannelDescriptor {
	chType := descriptor.Data
	if master {
		chType = descriptor.Master
	}
	nBytes := (bitCount + 7) / 8

	return descriptor.ChannelDescriptor{
		Name:        name,
		SignalType:  st,
		BitCount:    bitCount,
		ByteOffset:  byteOffset,
		NBytes:      nBytes,
		ChannelType: chType,
		PosByteBeg:  byteOffset,
		PosByteEnd:  byteOffset + nBytes,
		PosBitBeg:   8 * byteOffset,
		PosBitEnd:   8*byteOffset + bitCount,
		NativeType:  nt,
		Conversion:  descriptor.Identity(),
	}
}

func TestSortedReader_S1_FastPath(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		numericChannel("t", 0, 32, signaltype.TypeUnsignedByteOrder, signaltype.NativeUint32, true),
		numericChannel("v", 4, 32, signaltype.TypeFloatByteOrder, signaltype.NativeFloat32, false),
	}

	s, err := schema.Build(channels, schema.Params{CGRecordLength: 8, NumberOfRecords: 3})
	require.NoError(t, err)
	require.True(t, s.FastPathEligible(nil))

	data := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x3F,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x20, 0x40,
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x40,
	}

	r := NewSortedReader(s, endian.GetLittleEndianEngine())
	cols, err := r.Read(bytes.NewReader(data), nil)
	require.NoError(t, err)

	require.Equal(t, []uint64{0, 1, 2}, cols["t"].Raw)
	require.InDeltaSlice(t, []float64{1.0, 2.5, 4.0}, cols["v"].Float, 1e-9)
}

func TestSortedReader_S3_HiddenBytesSlowPath(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		numericChannel("v", 0, 16, signaltype.TypeUnsignedLittleEndian, signaltype.NativeUint16, true),
	}

	s, err := schema.Build(channels, schema.Params{CGRecordLength: 8, NumberOfRecords: 1})
	require.NoError(t, err)
	require.True(t, s.HiddenBytes)
	require.False(t, s.FastPathEligible(nil))

	data := []byte{0x34, 0x12, 0, 0, 0, 0, 0, 0}
	r := NewSortedReader(s, endian.GetLittleEndianEngine())
	cols, err := r.Read(bytes.NewReader(data), nil)
	require.NoError(t, err)
	require.Equal(t, []uint64{0x1234}, cols["v"].Raw)
}

func TestSortedReader_S1_ParallelDecodeMatchesSerial(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		numericChannel("t", 0, 32, signaltype.TypeUnsignedByteOrder, signaltype.NativeUint32, true),
		numericChannel("v", 4, 32, signaltype.TypeFloatByteOrder, signaltype.NativeFloat32, false),
	}

	s, err := schema.Build(channels, schema.Params{CGRecordLength: 8, NumberOfRecords: 3})
	require.NoError(t, err)

	data := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x3F,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x20, 0x40,
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x40,
	}

	r := NewSortedReader(s, endian.GetLittleEndianEngine(), WithParallelDecode(true))
	cols, err := r.Read(bytes.NewReader(data), nil)
	require.NoError(t, err)

	require.Equal(t, []uint64{0, 1, 2}, cols["t"].Raw)
	require.InDeltaSlice(t, []float64{1.0, 2.5, 4.0}, cols["v"].Float, 1e-9)
}

func TestColumn_ReleaseReturnsPoolSlicesAndClearsThem(t *testing.T) {
	col := NewColumn("v", signaltype.NativeFloat64, 8, 3)
	col.Float[0], col.Float[1], col.Float[2] = 1, 2, 3

	col.Release()
	require.Nil(t, col.Float)

	// A second Release must be a no-op, not a double-free.
	col.Release()
}

func TestSortedReader_S2_BitPackedRepack(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		{
			Name: "a", SignalType: signaltype.TypeUnsignedByteOrder, BitCount: 3, ByteOffset: 0, BitOffset: 0,
			NBytes: 1, PosByteBeg: 0, PosByteEnd: 1, PosBitBeg: 0, PosBitEnd: 3, NativeType: signaltype.NativeUint8,
			ChannelType: descriptor.Master, Conversion: descriptor.Identity(),
		},
		{
			Name: "b", SignalType: signaltype.TypeUnsignedByteOrder, BitCount: 2, ByteOffset: 0, BitOffset: 3,
			NBytes: 1, PosByteBeg: 0, PosByteEnd: 1, PosBitBeg: 3, PosBitEnd: 5, NativeType: signaltype.NativeUint8,
			Conversion: descriptor.Identity(),
		},
		{
			Name: "c", SignalType: signaltype.TypeUnsignedByteOrder, BitCount: 3, ByteOffset: 0, BitOffset: 5,
			NBytes: 1, PosByteBeg: 0, PosByteEnd: 1, PosBitBeg: 5, PosBitEnd: 8, NativeType: signaltype.NativeUint8,
			Conversion: descriptor.Identity(),
		},
	}

	s, err := schema.Build(channels, schema.Params{CGRecordLength: 1, NumberOfRecords: 1})
	require.NoError(t, err)
	require.True(t, s.FastPathEligible(nil))

	data := []byte{0b10110101}
	r := NewSortedReader(s, endian.GetLittleEndianEngine())
	slots, err := r.Read(bytes.NewReader(data), nil)
	require.NoError(t, err)

	finalCols, diags := Finalize(s, slots)
	require.Empty(t, diags)
	require.Equal(t, uint64(5), finalCols["a"].Raw[0])
	require.Equal(t, uint64(2), finalCols["b"].Raw[0])
	require.Equal(t, uint64(5), finalCols["c"].Raw[0])
}

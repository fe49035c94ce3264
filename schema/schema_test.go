package schema

import (
	"testing"

	"github.com/arloliu/mdf/descriptor"
	"github.com/arloliu/mdf/signaltype"
	"github.com/stretchr/testify/require"
)

func chDesc(name string, byteOffset, bitOffset, bitCount int, nt signaltype.NativeType, master bool) descriptor.ChannelDescriptor {
	chType := descriptor.Data
	if master {
		chType = descriptor.Master
	}

	nBytes := (bitCount + 7) / 8

	return descriptor.ChannelDescriptor{
		Name:        name,
		BitCount:    bitCount,
		ByteOffset:  byteOffset,
		BitOffset:   bitOffset,
		NBytes:      nBytes,
		ChannelType: chType,
		PosByteBeg:  byteOffset,
		PosByteEnd:  byteOffset + nBytes,
		PosBitBeg:   8*byteOffset + bitOffset,
		PosBitEnd:   8*byteOffset + bitOffset + bitCount,
		NativeType:  nt,
		Conversion:  descriptor.Identity(),
	}
}

func TestBuild_SortedByteAligned(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		chDesc("t", 0, 0, 32, signaltype.NativeUint32, true),
		chDesc("v", 4, 0, 32, signaltype.NativeFloat32, false),
	}

	s, err := Build(channels, Params{CGRecordLength: 8, NumberOfRecords: 3})
	require.NoError(t, err)
	require.True(t, s.ByteAligned)
	require.False(t, s.HiddenBytes)
	require.True(t, s.FastPathEligible(nil))
	require.NotNil(t, s.Master)
	require.Equal(t, "t", s.Master.Name)
	require.Len(t, s.NativeSchema, 2)
}

func TestBuild_BitPackedSharedSlot(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		chDesc("a", 0, 0, 3, signaltype.NativeUint8, false),
		chDesc("b", 0, 3, 2, signaltype.NativeUint8, false),
		chDesc("c", 0, 5, 3, signaltype.NativeUint8, false),
	}

	s, err := Build(channels, Params{CGRecordLength: 1, NumberOfRecords: 1})
	require.NoError(t, err)
	require.False(t, s.HiddenBytes)
	require.Len(t, s.NativeSchema, 1)

	slotA := s.RecordToSlot["a"]
	slotB := s.RecordToSlot["b"]
	slotC := s.RecordToSlot["c"]
	require.Equal(t, slotA, slotB)
	require.Equal(t, slotA, slotC)
}

func TestBuild_HiddenBytes(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		chDesc("v", 0, 0, 16, signaltype.NativeUint16, true),
	}

	s, err := Build(channels, Params{CGRecordLength: 8, NumberOfRecords: 1})
	require.NoError(t, err)
	require.True(t, s.HiddenBytes)
	require.False(t, s.FastPathEligible(nil))
}

func TestBuild_RecordIDWidthInsertsSlots(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		chDesc("v", 0, 0, 16, signaltype.NativeUint16, true),
	}

	s, err := Build(channels, Params{RecordIDWidth: 2, CGRecordLength: 2, NumberOfRecords: 1, HasRecordID: true, RecordID: 3})
	require.NoError(t, err)
	require.Len(t, s.NativeSchema, 3)
	require.Equal(t, "RecordID1", s.NativeSchema[0].Name)
	require.Equal(t, "RecordID2", s.NativeSchema[2].Name)
}

func TestBuild_NoMasterDeclaredUsesFirstChannel(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		chDesc("a", 0, 0, 8, signaltype.NativeUint8, false),
		chDesc("b", 1, 0, 8, signaltype.NativeUint8, false),
	}

	s, err := Build(channels, Params{CGRecordLength: 2, NumberOfRecords: 1})
	require.NoError(t, err)
	require.Equal(t, "a", s.Master.Name)
}

func TestBuild_BitLayoutExceedsRecord(t *testing.T) {
	channels := []descriptor.ChannelDescriptor{
		chDesc("v", 0, 0, 32, signaltype.NativeUint32, true),
	}

	_, err := Build(channels, Params{CGRecordLength: 2, NumberOfRecords: 1})
	require.Error(t, err)
}

func TestBuild_NoChannels(t *testing.T) {
	_, err := Build(nil, Params{})
	require.Error(t, err)
}

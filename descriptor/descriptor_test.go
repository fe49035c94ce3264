package descriptor

import (
	"testing"

	"github.com/arloliu/mdf/blocks"
	"github.com/arloliu/mdf/signaltype"
	"github.com/stretchr/testify/require"
)

func cnBlock(name string, signalType uint16, bitOffset, numBits, byteOffset uint16, chType uint16) blocks.CNBlock {
	cn := blocks.CNBlock{
		ChannelType:    chType,
		BitOffset:      bitOffset,
		NumberOfBits:   numBits,
		SignalDataType: signalType,
		ByteOffset:     byteOffset,
	}
	copy(cn.Name[:], name)

	return cn
}

func TestBuild_ByteAlignedFloat(t *testing.T) {
	cn := cnBlock("v", uint16(signaltype.TypeFloatLittleEndian), 0, 32, 4, blocks.ChannelTypeData)
	d, err := Build(cn, Identity(), false, 0)
	require.NoError(t, err)

	require.Equal(t, "v", d.Name)
	require.Equal(t, 4, d.NBytes)
	require.Equal(t, 4, d.PosByteBeg)
	require.Equal(t, 8, d.PosByteEnd)
	require.Equal(t, 32, d.PosBitBeg)
	require.Equal(t, 64, d.PosBitEnd)
	require.Equal(t, signaltype.NativeFloat32, d.NativeType)
	require.False(t, d.IsMaster())
	require.False(t, d.BitPacked())
}

func TestBuild_BitPacked(t *testing.T) {
	cn := cnBlock("flag", uint16(signaltype.TypeUnsignedByteOrder), 3, 2, 0, blocks.ChannelTypeData)
	d, err := Build(cn, Identity(), false, 0)
	require.NoError(t, err)

	require.Equal(t, 3, d.BitOffset)
	require.Equal(t, 3, d.PosBitBeg)
	require.Equal(t, 5, d.PosBitEnd)
	require.True(t, d.BitPacked())
}

func TestBuild_RecordIDPrefixShiftsPositions(t *testing.T) {
	cn := cnBlock("t", uint16(signaltype.TypeUnsignedByteOrder), 0, 32, 0, blocks.ChannelTypeMaster)
	d, err := Build(cn, Identity(), false, 1)
	require.NoError(t, err)

	require.Equal(t, 1, d.PosByteBeg)
	require.Equal(t, 5, d.PosByteEnd)
	require.True(t, d.IsMaster())
}

func TestBuild_UnsupportedSignalType(t *testing.T) {
	cn := cnBlock("x", 250, 0, 8, 0, blocks.ChannelTypeData)
	_, err := Build(cn, Identity(), false, 0)
	require.Error(t, err)
}

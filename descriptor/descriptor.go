// Package descriptor builds immutable per-channel descriptors (component B)
// from the parsed block graph, and defines the tagged-union conversion
// specification (component G's input) each descriptor refers to.
package descriptor

import (
	"fmt"

	"github.com/arloliu/mdf/blocks"
	"github.com/arloliu/mdf/signaltype"
)

// ChannelType mirrors blocks.ChannelTypeData/ChannelTypeMaster.
type ChannelType uint16

const (
	Data   ChannelType = ChannelType(blocks.ChannelTypeData)
	Master ChannelType = ChannelType(blocks.ChannelTypeMaster)
)

// ChannelDescriptor is the immutable, fully-resolved description of one
// channel's storage layout and conversion, built once from the block graph
// and shared by the record decoder and the conversion engine.
type ChannelDescriptor struct {
	Name        string
	SignalType  signaltype.SignalType
	BitCount    int
	ByteOffset  int // within the record body, excluding record-ID bytes
	BitOffset   int // 0..7
	NBytes      int // ceil(BitCount/8)
	ChannelType ChannelType

	PosByteBeg int // includes leading record-ID bytes
	PosByteEnd int
	PosBitBeg  int
	PosBitEnd  int

	NativeType signaltype.NativeType
	Unit       string
	Description string

	Conversion ConversionSpec
}

// Build constructs a ChannelDescriptor from a parsed CNBlock and its
// already-resolved ConversionSpec, given the file's byte-order flag and the
// data group's record-ID prefix width (0, 1, or 2).
func Build(cn blocks.CNBlock, conv ConversionSpec, fileBigEndian bool, recordIDWidth int) (ChannelDescriptor, error) {
	bitCount := int(cn.NumberOfBits)
	byteOffset := int(cn.ByteOffset)
	bitOffset := int(cn.BitOffset)
	signalType := signaltype.SignalType(cn.SignalDataType)

	nativeType, _, err := signaltype.Resolve(signalType, bitCount, fileBigEndian)
	if err != nil {
		return ChannelDescriptor{}, fmt.Errorf("channel %q: %w", cn.NameString(), err)
	}

	nBytes := (bitCount + 7) / 8
	posByteBeg := recordIDWidth + byteOffset
	posBitBeg := 8*posByteBeg + bitOffset
	posBitEnd := posBitBeg + bitCount
	posByteEnd := posByteBeg + nBytes

	d := ChannelDescriptor{
		Name:        cn.NameString(),
		SignalType:  signalType,
		BitCount:    bitCount,
		ByteOffset:  byteOffset,
		BitOffset:   bitOffset,
		NBytes:      nBytes,
		ChannelType: ChannelType(cn.ChannelType),
		PosByteBeg:  posByteBeg,
		PosByteEnd:  posByteEnd,
		PosBitBeg:   posBitBeg,
		PosBitEnd:   posBitEnd,
		NativeType:  nativeType,
		Description: cn.DescriptionString(),
		Conversion:  conv,
	}

	return d, nil
}

// IsMaster reports whether d was explicitly tagged as the channel group's
// master channel.
func (d *ChannelDescriptor) IsMaster() bool { return d.ChannelType == Master }

// BitPacked reports whether d occupies fewer bits than a whole byte-aligned
// storage slot, i.e. BitCount is not a positive multiple of 8 or BitOffset != 0.
func (d *ChannelDescriptor) BitPacked() bool {
	return d.BitOffset != 0 || d.BitCount%8 != 0
}

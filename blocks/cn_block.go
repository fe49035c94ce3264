package blocks

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
)

// Channel type tags (CNBlock.ChannelType).
const (
	ChannelTypeData   uint16 = 0
	ChannelTypeMaster uint16 = 1
)

// CNBlock is the 228-byte channel block: one signal's name, storage layout
// (signalDataType/bitOffset/numberOfBits), and link to its conversion block.
type CNBlock struct {
	PointerToNextCN       uint32
	PointerToCC           uint32
	PointerToSource        uint32
	PointerToDependency    uint32
	PointerToComment       uint32 // TX block
	ChannelType           uint16
	Name                  [32]byte
	Description           [128]byte
	BitOffset             uint16
	NumberOfBits          uint16
	SignalDataType        uint16
	ValueRangeValid       uint16
	Min                   float64
	Max                   float64
	SamplingRate          float64
	PointerToLongName     uint32 // TX block, long channel name
	PointerToDisplayName  uint32 // TX block
	ByteOffset            uint16
}

func (b *CNBlock) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != CNBlockSize {
		return fmt.Errorf("%w: CNBlock requires %d bytes, got %d", errs.ErrInvalidHeaderSize, CNBlockSize, len(data))
	}

	if string(data[0:2]) != BlockIDCN {
		return fmt.Errorf("%w: expected %q, got %q", errs.ErrInvalidBlockID, BlockIDCN, data[0:2])
	}

	b.PointerToNextCN = engine.Uint32(data[4:8])
	b.PointerToCC = engine.Uint32(data[8:12])
	b.PointerToSource = engine.Uint32(data[12:16])
	b.PointerToDependency = engine.Uint32(data[16:20])
	b.PointerToComment = engine.Uint32(data[20:24])
	b.ChannelType = engine.Uint16(data[24:26])
	copy(b.Name[:], data[26:58])
	copy(b.Description[:], data[58:186])
	b.BitOffset = engine.Uint16(data[186:188])
	b.NumberOfBits = engine.Uint16(data[188:190])
	b.SignalDataType = engine.Uint16(data[190:192])
	b.ValueRangeValid = engine.Uint16(data[192:194])
	b.Min = math.Float64frombits(engine.Uint64(data[194:202]))
	b.Max = math.Float64frombits(engine.Uint64(data[202:210]))
	b.SamplingRate = math.Float64frombits(engine.Uint64(data[210:218]))
	b.PointerToLongName = engine.Uint32(data[218:222])
	b.PointerToDisplayName = engine.Uint32(data[222:226])
	b.ByteOffset = engine.Uint16(data[226:228])

	return nil
}

func (b *CNBlock) Bytes(engine endian.EndianEngine) []byte {
	out := make([]byte, CNBlockSize)
	copy(out[0:2], BlockIDCN)
	engine.PutUint16(out[2:4], CNBlockSize)
	engine.PutUint32(out[4:8], b.PointerToNextCN)
	engine.PutUint32(out[8:12], b.PointerToCC)
	engine.PutUint32(out[12:16], b.PointerToSource)
	engine.PutUint32(out[16:20], b.PointerToDependency)
	engine.PutUint32(out[20:24], b.PointerToComment)
	engine.PutUint16(out[24:26], b.ChannelType)
	copy(out[26:58], b.Name[:])
	copy(out[58:186], b.Description[:])
	engine.PutUint16(out[186:188], b.BitOffset)
	engine.PutUint16(out[188:190], b.NumberOfBits)
	engine.PutUint16(out[190:192], b.SignalDataType)
	engine.PutUint16(out[192:194], b.ValueRangeValid)
	engine.PutUint64(out[194:202], math.Float64bits(b.Min))
	engine.PutUint64(out[202:210], math.Float64bits(b.Max))
	engine.PutUint64(out[210:218], math.Float64bits(b.SamplingRate))
	engine.PutUint32(out[218:222], b.PointerToLongName)
	engine.PutUint32(out[222:226], b.PointerToDisplayName)
	engine.PutUint16(out[226:228], b.ByteOffset)

	return out
}

// NameString returns the NUL-terminated Name field as a trimmed Go string.
func (b *CNBlock) NameString() string {
	return trimNUL(b.Name[:])
}

// DescriptionString returns the NUL-terminated Description field as a
// trimmed Go string.
func (b *CNBlock) DescriptionString() string {
	return trimNUL(b.Description[:])
}

func trimNUL(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}

package blocks

import (
	"fmt"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
)

// CGBlock is the 30-byte channel group block: one record layout within a
// data group, with its own record ID, channel list, and record byte length.
type CGBlock struct {
	PointerToNextCG          uint32
	PointerToFirstCN         uint32
	PointerToComment         uint32 // TX block
	RecordID                 uint16
	NumChannels              uint16
	DataRecordSize           uint16 // cg_record_length, bytes per record excluding the record ID
	NumRecords               uint32
	PointerToSampleReduction uint32
}

func (b *CGBlock) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != CGBlockSize {
		return fmt.Errorf("%w: CGBlock requires %d bytes, got %d", errs.ErrInvalidHeaderSize, CGBlockSize, len(data))
	}

	if string(data[0:2]) != BlockIDCG {
		return fmt.Errorf("%w: expected %q, got %q", errs.ErrInvalidBlockID, BlockIDCG, data[0:2])
	}

	b.PointerToNextCG = engine.Uint32(data[4:8])
	b.PointerToFirstCN = engine.Uint32(data[8:12])
	b.PointerToComment = engine.Uint32(data[12:16])
	b.RecordID = engine.Uint16(data[16:18])
	b.NumChannels = engine.Uint16(data[18:20])
	b.DataRecordSize = engine.Uint16(data[20:22])
	b.NumRecords = engine.Uint32(data[22:26])
	b.PointerToSampleReduction = engine.Uint32(data[26:30])

	return nil
}

func (b *CGBlock) Bytes(engine endian.EndianEngine) []byte {
	out := make([]byte, CGBlockSize)
	copy(out[0:2], BlockIDCG)
	engine.PutUint16(out[2:4], CGBlockSize)
	engine.PutUint32(out[4:8], b.PointerToNextCG)
	engine.PutUint32(out[8:12], b.PointerToFirstCN)
	engine.PutUint32(out[12:16], b.PointerToComment)
	engine.PutUint16(out[16:18], b.RecordID)
	engine.PutUint16(out[18:20], b.NumChannels)
	engine.PutUint16(out[20:22], b.DataRecordSize)
	engine.PutUint32(out[22:26], b.NumRecords)
	engine.PutUint32(out[26:30], b.PointerToSampleReduction)

	return out
}

package blocks

import (
	"fmt"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
)

// DGBlock is the 28-byte data group block: one entry in the chain of
// data groups linked from the header block, pointing to its first channel
// group and to the raw data records.
type DGBlock struct {
	PointerToNextDG        uint32
	PointerToFirstCG       uint32
	PointerToTriggerBlock  uint32 // unused, always 0
	PointerToDataRecords   uint32
	NumChannelGroups       uint16
	NumRecordIDs           uint16 // 0, 1, or 2; width of the record-ID prefix/suffix
	Reserved               uint32
}

func (b *DGBlock) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != DGBlockSize {
		return fmt.Errorf("%w: DGBlock requires %d bytes, got %d", errs.ErrInvalidHeaderSize, DGBlockSize, len(data))
	}

	if string(data[0:2]) != BlockIDDG {
		return fmt.Errorf("%w: expected %q, got %q", errs.ErrInvalidBlockID, BlockIDDG, data[0:2])
	}

	b.PointerToNextDG = engine.Uint32(data[4:8])
	b.PointerToFirstCG = engine.Uint32(data[8:12])
	b.PointerToTriggerBlock = engine.Uint32(data[12:16])
	b.PointerToDataRecords = engine.Uint32(data[16:20])
	b.NumChannelGroups = engine.Uint16(data[20:22])
	b.NumRecordIDs = engine.Uint16(data[22:24])
	b.Reserved = engine.Uint32(data[24:28])

	return nil
}

func (b *DGBlock) Bytes(engine endian.EndianEngine) []byte {
	out := make([]byte, DGBlockSize)
	copy(out[0:2], BlockIDDG)
	engine.PutUint16(out[2:4], DGBlockSize)
	engine.PutUint32(out[4:8], b.PointerToNextDG)
	engine.PutUint32(out[8:12], b.PointerToFirstCG)
	engine.PutUint32(out[12:16], b.PointerToTriggerBlock)
	engine.PutUint32(out[16:20], b.PointerToDataRecords)
	engine.PutUint16(out[20:22], b.NumChannelGroups)
	engine.PutUint16(out[22:24], b.NumRecordIDs)
	engine.PutUint32(out[24:28], b.Reserved)

	return out
}

// RecordIDWidth returns the number of bytes occupied by the record ID at the
// front of each record: 0 for sorted, 1 or 2 for unsorted depending on
// NumRecordIDs.
func (b *DGBlock) RecordIDWidth() int {
	switch b.NumRecordIDs {
	case 0:
		return 0
	case 2:
		return 2
	default:
		return 1
	}
}

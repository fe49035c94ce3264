package blocks

import (
	"fmt"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
)

// HDBlock is the 208-byte header block that follows the 64-byte ID block at
// file offset 64; it names the single entry point into the data-group chain
// and carries file-level metadata (author, time, comments).
type HDBlock struct {
	PointerToFirstDG      uint32
	PointerToFileComment  uint32 // TX block
	PointerToProgramBlock uint32
	NumDataGroups         uint16
	Date                  [10]byte // "dd:mm:yyyy"
	Time                  [8]byte  // "HH:MM:SS"
	Author                [32]byte
	Organization          [32]byte
	Project               [32]byte
	Subject               [32]byte
	TimeStampNs           uint64
	UTCTimeOffset         int16
	TimeQuality           uint16
	TimerID               [32]byte
}

// Parse decodes data, which must be exactly HDBlockSize bytes, into b, using
// engine for the multi-byte numeric fields.
func (b *HDBlock) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != HDBlockSize {
		return fmt.Errorf("%w: HDBlock requires %d bytes, got %d", errs.ErrInvalidHeaderSize, HDBlockSize, len(data))
	}

	if string(data[0:2]) != BlockIDHD {
		return fmt.Errorf("%w: expected %q, got %q", errs.ErrInvalidBlockID, BlockIDHD, data[0:2])
	}
	// data[2:4] is the block size field; not re-validated against HDBlockSize
	// since some writers pad it, mirroring the lenient reader behavior noted
	// in the format's source material.

	off := 4
	b.PointerToFirstDG = engine.Uint32(data[off : off+4])
	off += 4
	b.PointerToFileComment = engine.Uint32(data[off : off+4])
	off += 4
	b.PointerToProgramBlock = engine.Uint32(data[off : off+4])
	off += 4
	b.NumDataGroups = engine.Uint16(data[off : off+2])
	off += 2
	copy(b.Date[:], data[off:off+10])
	off += 10
	copy(b.Time[:], data[off:off+8])
	off += 8
	copy(b.Author[:], data[off:off+32])
	off += 32
	copy(b.Organization[:], data[off:off+32])
	off += 32
	copy(b.Project[:], data[off:off+32])
	off += 32
	copy(b.Subject[:], data[off:off+32])
	off += 32
	b.TimeStampNs = engine.Uint64(data[off : off+8])
	off += 8
	b.UTCTimeOffset = int16(engine.Uint16(data[off : off+2]))
	off += 2
	b.TimeQuality = engine.Uint16(data[off : off+2])
	off += 2
	copy(b.TimerID[:], data[off:off+32])

	return nil
}

// Bytes serializes b into a new HDBlockSize-byte slice using engine.
func (b *HDBlock) Bytes(engine endian.EndianEngine) []byte {
	out := make([]byte, HDBlockSize)
	copy(out[0:2], BlockIDHD)
	engine.PutUint16(out[2:4], HDBlockSize)

	off := 4
	engine.PutUint32(out[off:off+4], b.PointerToFirstDG)
	off += 4
	engine.PutUint32(out[off:off+4], b.PointerToFileComment)
	off += 4
	engine.PutUint32(out[off:off+4], b.PointerToProgramBlock)
	off += 4
	engine.PutUint16(out[off:off+2], b.NumDataGroups)
	off += 2
	copy(out[off:off+10], b.Date[:])
	off += 10
	copy(out[off:off+8], b.Time[:])
	off += 8
	copy(out[off:off+32], b.Author[:])
	off += 32
	copy(out[off:off+32], b.Organization[:])
	off += 32
	copy(out[off:off+32], b.Project[:])
	off += 32
	copy(out[off:off+32], b.Subject[:])
	off += 32
	engine.PutUint64(out[off:off+8], b.TimeStampNs)
	off += 8
	engine.PutUint16(out[off:off+2], uint16(b.UTCTimeOffset))
	off += 2
	engine.PutUint16(out[off:off+2], b.TimeQuality)
	off += 2
	copy(out[off:off+32], b.TimerID[:])

	return out
}

// SetText copies s into one of the fixed-size text fields, padding with
// NUL bytes. Used when building an HDBlock for the writer.
func SetText(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	n := copy(dst, s)
	_ = n
}

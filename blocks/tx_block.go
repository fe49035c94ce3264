package blocks

import (
	"fmt"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
)

// TXBlock is a variable-length text block: a comment, unit string, or long
// channel name too large for its owning block's fixed text field.
type TXBlock struct {
	Text string // NUL-terminated payload, NUL stripped
}

// ParseTXBlock decodes a TX block starting at data[0]. data must contain at
// least the 4-byte header; the block's own size field determines how much
// more of data is consumed.
func ParseTXBlock(data []byte, engine endian.EndianEngine) (TXBlock, int, error) {
	if len(data) < TXHeaderSize {
		return TXBlock{}, 0, fmt.Errorf("%w: TXBlock header requires %d bytes", errs.ErrInvalidHeaderSize, TXHeaderSize)
	}

	if string(data[0:2]) != BlockIDTX {
		return TXBlock{}, 0, fmt.Errorf("%w: expected %q, got %q", errs.ErrInvalidBlockID, BlockIDTX, data[0:2])
	}

	size := int(engine.Uint16(data[2:4]))
	if size < TXHeaderSize || size > len(data) {
		return TXBlock{}, 0, fmt.Errorf("%w: TXBlock size %d out of range", errs.ErrInvalidHeaderSize, size)
	}

	payload := data[TXHeaderSize:size]
	return TXBlock{Text: trimNUL(payload)}, size, nil
}

// Bytes serializes the block as "TX" + size + text + trailing NUL.
func (b TXBlock) Bytes(engine endian.EndianEngine) []byte {
	size := TXHeaderSize + len(b.Text) + 1
	out := make([]byte, size)
	copy(out[0:2], BlockIDTX)
	engine.PutUint16(out[2:4], uint16(size))
	copy(out[TXHeaderSize:], b.Text)
	// final byte is left as the zero value, the NUL terminator

	return out
}

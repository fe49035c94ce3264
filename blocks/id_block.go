package blocks

import (
	"fmt"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
)

// IDBlock is the 64-byte identification block at offset 0 of every MDF file.
// It carries the file magic, the version string, and the byte-order and
// floating-point-format flags that every other block's numeric fields are
// read or written against.
type IDBlock struct {
	FileID              [8]byte  // "MDF     "
	VersionString       [8]byte  // e.g. "3.30    "
	ProgramID           [8]byte  // writer-defined, e.g. "MDFreadr"
	ByteOrder           uint16   // 0 = little-endian, else big-endian
	FloatFormat         uint16   // 0 = IEEE 754
	VersionNumber       uint16   // e.g. 330
	CodePageNumber      uint16   // 0 = unset, else a code page id
	Reserved            [32]byte
}

// BigEndian reports whether numeric fields in the rest of the file follow
// big-endian byte order, per the ByteOrder flag.
func (b *IDBlock) BigEndian() bool { return b.ByteOrder != 0 }

// Engine returns the endian engine matching the ByteOrder flag.
func (b *IDBlock) Engine() endian.EndianEngine {
	if b.BigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Parse decodes data, which must be exactly IDBlockSize bytes, into b.
func (b *IDBlock) Parse(data []byte) error {
	if len(data) != IDBlockSize {
		return fmt.Errorf("%w: IDBlock requires %d bytes, got %d", errs.ErrInvalidHeaderSize, IDBlockSize, len(data))
	}

	copy(b.FileID[:], data[0:8])
	if string(b.FileID[:]) != FileMagic {
		return fmt.Errorf("%w: %q", errs.ErrInvalidFileMagic, b.FileID[:])
	}

	copy(b.VersionString[:], data[8:16])
	copy(b.ProgramID[:], data[16:24])

	// ByteOrder/FloatFormat/VersionNumber/CodePageNumber are always stored
	// little-endian in the ID block itself, since the byte-order flag they
	// carry hasn't been read yet.
	le := endian.GetLittleEndianEngine()
	b.ByteOrder = le.Uint16(data[24:26])
	b.FloatFormat = le.Uint16(data[26:28])
	b.VersionNumber = le.Uint16(data[28:30])
	b.CodePageNumber = le.Uint16(data[30:32])
	copy(b.Reserved[:], data[32:64])

	if b.VersionNumber < 300 || b.VersionNumber >= 400 {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, b.VersionNumber)
	}

	return nil
}

// Bytes serializes b into a new IDBlockSize-byte slice.
func (b *IDBlock) Bytes() []byte {
	out := make([]byte, IDBlockSize)
	copy(out[0:8], b.FileID[:])
	copy(out[8:16], b.VersionString[:])
	copy(out[16:24], b.ProgramID[:])

	le := endian.GetLittleEndianEngine()
	le.PutUint16(out[24:26], b.ByteOrder)
	le.PutUint16(out[26:28], b.FloatFormat)
	le.PutUint16(out[28:30], b.VersionNumber)
	le.PutUint16(out[30:32], b.CodePageNumber)
	copy(out[32:64], b.Reserved[:])

	return out
}

// NewIDBlock builds the IDBlock the writer emits: little-endian, IEEE 754,
// version 3.30.
func NewIDBlock(programID string) *IDBlock {
	b := &IDBlock{
		VersionNumber:  330,
		CodePageNumber: 28591, // ISO 8859-1, matching the writer's text fields
	}
	copy(b.FileID[:], FileMagic)
	copy(b.VersionString[:], padASCII(Version330, 8))
	copy(b.ProgramID[:], padASCII(programID, 8))

	return b
}

// padASCII right-pads s with spaces (or truncates it) to exactly n bytes.
func padASCII(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}

	out := make([]byte, n)
	copy(out, s)
	for i := len(s); i < n; i++ {
		out[i] = ' '
	}

	return string(out)
}

// Package blocks implements the fixed-size MDF 3.x block layouts: parsing a
// block's bytes into a Go struct and serializing a struct back to bytes.
// Traversal of the block graph (following the link fields to build the full
// description tree) belongs to the metadata parser and is out of scope here;
// this package only knows how to read and write one block at a time.
package blocks

// Block sizes, in bytes, as they appear in each block's own size field.
const (
	IDBlockSize = 64
	HDBlockSize = 208
	DGBlockSize = 28
	CGBlockSize = 30
	CNBlockSize = 228
	CCBlockSize = 46
	TXHeaderSize = 4 // "TX" + size uint16, payload follows
)

// Block type identifiers, as they appear in the first two bytes of every
// block except IDBlock (which has no leading type tag).
const (
	BlockIDHD = "HD"
	BlockIDDG = "DG"
	BlockIDCG = "CG"
	BlockIDCN = "CN"
	BlockIDCC = "CC"
	BlockIDTX = "TX"
)

// FileMagic is the fixed 8-byte identifier at the start of every MDF file.
const FileMagic = "MDF     "

// Version330 is the literal version string written by the writer (component H).
const Version330 = "3.30    "

// Package signaltype maps MDF's raw signalDataType/bitCount/byteOrder triple
// to a native Go storage type, plus a struct-style single-character format
// code per native type (component A of the format core).
package signaltype

import "github.com/arloliu/mdf/endian"

// SignalType is the raw MDF signalDataType tag, 0..16.
type SignalType uint8

const (
	TypeUnsignedByteOrder   SignalType = 0 // unsigned, follows file byte order
	TypeSignedByteOrder     SignalType = 1 // signed, follows file byte order
	TypeFloatByteOrder      SignalType = 2 // IEEE float, follows file byte order
	TypeDoubleByteOrder     SignalType = 3 // IEEE double, follows file byte order
	TypeVaxFloat            SignalType = 4
	TypeVaxDouble           SignalType = 5
	TypeVaxGFloat           SignalType = 6
	TypeText                SignalType = 7 // fixed-length text
	TypeByteArray           SignalType = 8 // raw byte array
	TypeUnsignedBigEndian   SignalType = 9
	TypeSignedBigEndian     SignalType = 10
	TypeFloatBigEndian      SignalType = 11
	TypeDoubleBigEndian     SignalType = 12
	TypeUnsignedLittleEndian SignalType = 13
	TypeSignedLittleEndian   SignalType = 14
	TypeFloatLittleEndian    SignalType = 15
	TypeDoubleLittleEndian   SignalType = 16
)

// IsUnsigned reports whether t is one of the unsigned integer groupings.
func (t SignalType) IsUnsigned() bool {
	switch t {
	case TypeUnsignedByteOrder, TypeUnsignedBigEndian, TypeUnsignedLittleEndian:
		return true
	default:
		return false
	}
}

// IsSigned reports whether t is one of the signed integer groupings.
//
// Per §9 design notes: the type-encoder test for "signed" historically only
// checked {1,10,14}; the bit-repack pass treats {0,1,9,10,13,14} as
// integer-signed-or-unsigned. The latter (IsInteger) is authoritative for
// deciding whether a channel is repackable; IsSigned is authoritative only
// for choosing the signed vs. unsigned native width.
func (t SignalType) IsSigned() bool {
	switch t {
	case TypeSignedByteOrder, TypeSignedBigEndian, TypeSignedLittleEndian:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is any integer grouping (signed or unsigned),
// the set against which the bit-repack post-step (component F) applies.
func (t SignalType) IsInteger() bool {
	return t.IsUnsigned() || t.IsSigned()
}

// IsFloat reports whether t is an IEEE floating-point grouping.
func (t SignalType) IsFloat() bool {
	switch t {
	case TypeFloatByteOrder, TypeDoubleByteOrder, TypeFloatBigEndian, TypeDoubleBigEndian,
		TypeFloatLittleEndian, TypeDoubleLittleEndian:
		return true
	default:
		return false
	}
}

// IsText reports whether t stores fixed-length text.
func (t SignalType) IsText() bool { return t == TypeText }

// IsByteArray reports whether t stores an opaque byte array.
func (t SignalType) IsByteArray() bool { return t == TypeByteArray }

// forcedByteOrder reports the type's forced endianness, if any.
// ok is false for the four "follows file byte order" types (0-3).
func (t SignalType) forcedByteOrder() (bigEndian bool, ok bool) {
	switch t {
	case TypeUnsignedBigEndian, TypeSignedBigEndian, TypeFloatBigEndian, TypeDoubleBigEndian:
		return true, true
	case TypeUnsignedLittleEndian, TypeSignedLittleEndian, TypeFloatLittleEndian, TypeDoubleLittleEndian:
		return false, true
	default:
		return false, false
	}
}

// NativeType is the in-memory storage kind a channel's raw samples decode
// into, after §4.A's width-widening and endianness resolution.
type NativeType uint8

const (
	NativeUint8 NativeType = iota
	NativeUint16
	NativeUint32
	NativeUint64
	NativeInt8
	NativeInt16
	NativeInt32
	NativeInt64
	NativeFloat32
	NativeFloat64
	NativeText  // fixed-width opaque text buffer, n_bits/8 bytes
	NativeBytes // fixed-width opaque byte buffer, n_bits/8 bytes
)

// Size returns the fixed size in bytes of one value of t, or itemSize for
// NativeText/NativeBytes where the width is channel-specific.
func (t NativeType) Size(itemSize int) int {
	switch t {
	case NativeUint8, NativeInt8:
		return 1
	case NativeUint16, NativeInt16:
		return 2
	case NativeUint32, NativeInt32, NativeFloat32:
		return 4
	case NativeUint64, NativeInt64, NativeFloat64:
		return 8
	case NativeText, NativeBytes:
		return itemSize
	default:
		return 0
	}
}

// Resolve maps (signalType, bitCount, fileBigEndian) to a native storage
// type and the endian engine that should be used to decode it, widening
// bitCount up to the next of {8,16,32,64} for integer groupings.
//
// fileBigEndian is the IDBlock byte-order flag (byte 0 != 0 means big-endian)
// and only matters for signal types 0-3, which follow the file-level flag;
// types 9-12 are always big-endian and 13-16 are always little-endian
// regardless of the file flag.
func Resolve(t SignalType, bitCount int, fileBigEndian bool) (NativeType, endian.EndianEngine, error) {
	bigEndian := fileBigEndian
	if forced, ok := t.forcedByteOrder(); ok {
		bigEndian = forced
	}

	engine := endian.GetLittleEndianEngine()
	if bigEndian {
		engine = endian.GetBigEndianEngine()
	}

	switch {
	case t.IsInteger():
		width, err := widenIntWidth(bitCount)
		if err != nil {
			return 0, nil, err
		}
		nt := integerNativeType(t.IsSigned(), width)

		return nt, engine, nil

	case t.IsFloat():
		switch bitCount {
		case 32:
			return NativeFloat32, engine, nil
		case 64:
			return NativeFloat64, engine, nil
		default:
			return 0, nil, errUnsupportedFloatWidth(bitCount)
		}

	case t.IsText():
		return NativeText, engine, nil

	case t.IsByteArray():
		return NativeBytes, engine, nil

	default:
		return 0, nil, errUnsupportedSignalType(t)
	}
}

// StructFormat returns a struct-like single-character format code for t,
// mirroring the teacher-external reference's C format strings. The record
// readers do not call it; they decode through an EndianEngine directly.
// The returned code is endian-neutral; callers apply the EndianEngine from
// Resolve separately.
func (nt NativeType) StructFormat() byte {
	switch nt {
	case NativeUint8:
		return 'B'
	case NativeInt8:
		return 'b'
	case NativeUint16:
		return 'H'
	case NativeInt16:
		return 'h'
	case NativeUint32:
		return 'I'
	case NativeInt32:
		return 'i'
	case NativeUint64:
		return 'Q'
	case NativeInt64:
		return 'q'
	case NativeFloat32:
		return 'f'
	case NativeFloat64:
		return 'd'
	default:
		return 's' // text/bytes, width-qualified by the caller
	}
}

func widenIntWidth(bitCount int) (int, error) {
	switch {
	case bitCount <= 0 || bitCount > 64:
		return 0, errUnsupportedBitCount(bitCount)
	case bitCount <= 8:
		return 8, nil
	case bitCount <= 16:
		return 16, nil
	case bitCount <= 32:
		return 32, nil
	default:
		return 64, nil
	}
}

func integerNativeType(signed bool, width int) NativeType {
	if signed {
		switch width {
		case 8:
			return NativeInt8
		case 16:
			return NativeInt16
		case 32:
			return NativeInt32
		default:
			return NativeInt64
		}
	}

	switch width {
	case 8:
		return NativeUint8
	case 16:
		return NativeUint16
	case 32:
		return NativeUint32
	default:
		return NativeUint64
	}
}

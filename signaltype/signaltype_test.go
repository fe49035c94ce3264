package signaltype

import (
	"testing"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("UnsignedFollowsFileByteOrder", func(t *testing.T) {
		nt, engine, err := Resolve(TypeUnsignedByteOrder, 16, true)
		require.NoError(t, err)
		require.Equal(t, NativeUint16, nt)
		require.Equal(t, endian.GetBigEndianEngine(), engine)
	})

	t.Run("SignedWidenedToNextWidth", func(t *testing.T) {
		nt, _, err := Resolve(TypeSignedByteOrder, 12, false)
		require.NoError(t, err)
		require.Equal(t, NativeInt16, nt)
	})

	t.Run("BigEndianGroupIgnoresFileFlag", func(t *testing.T) {
		_, engine, err := Resolve(TypeUnsignedBigEndian, 32, false)
		require.NoError(t, err)
		require.Equal(t, endian.GetBigEndianEngine(), engine)
	})

	t.Run("LittleEndianGroupIgnoresFileFlag", func(t *testing.T) {
		_, engine, err := Resolve(TypeSignedLittleEndian, 32, true)
		require.NoError(t, err)
		require.Equal(t, endian.GetLittleEndianEngine(), engine)
	})

	t.Run("FloatRequiresExactWidth", func(t *testing.T) {
		nt, _, err := Resolve(TypeFloatByteOrder, 32, false)
		require.NoError(t, err)
		require.Equal(t, NativeFloat32, nt)

		_, _, err = Resolve(TypeFloatByteOrder, 48, false)
		require.ErrorIs(t, err, errs.ErrUnsupportedSignalType)
	})

	t.Run("TextAndByteArray", func(t *testing.T) {
		nt, _, err := Resolve(TypeText, 40, false)
		require.NoError(t, err)
		require.Equal(t, NativeText, nt)

		nt, _, err = Resolve(TypeByteArray, 24, false)
		require.NoError(t, err)
		require.Equal(t, NativeBytes, nt)
	})

	t.Run("BitCountOverflow", func(t *testing.T) {
		_, _, err := Resolve(TypeUnsignedByteOrder, 65, false)
		require.ErrorIs(t, err, errs.ErrUnsupportedBitCount)
	})

	t.Run("UnsupportedSignalType", func(t *testing.T) {
		_, _, err := Resolve(SignalType(99), 8, false)
		require.ErrorIs(t, err, errs.ErrUnsupportedSignalType)
	})
}

func TestSignalTypeGroupings(t *testing.T) {
	require.True(t, TypeUnsignedByteOrder.IsInteger())
	require.True(t, TypeUnsignedByteOrder.IsUnsigned())
	require.False(t, TypeUnsignedByteOrder.IsSigned())

	require.True(t, TypeSignedBigEndian.IsInteger())
	require.True(t, TypeSignedBigEndian.IsSigned())

	require.True(t, TypeFloatLittleEndian.IsFloat())
	require.True(t, TypeText.IsText())
	require.True(t, TypeByteArray.IsByteArray())
}

func TestNativeTypeSize(t *testing.T) {
	require.Equal(t, 1, NativeUint8.Size(0))
	require.Equal(t, 8, NativeFloat64.Size(0))
	require.Equal(t, 12, NativeText.Size(12))
}

package blocks

import (
	"testing"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
	"github.com/stretchr/testify/require"
)

func TestIDBlock_RoundTrip(t *testing.T) {
	orig := NewIDBlock("mdfwriter")
	data := orig.Bytes()
	require.Len(t, data, IDBlockSize)

	parsed := &IDBlock{}
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, orig.VersionNumber, parsed.VersionNumber)
	require.False(t, parsed.BigEndian())
	require.Equal(t, endian.GetLittleEndianEngine(), parsed.Engine())
}

func TestIDBlock_Parse_InvalidMagic(t *testing.T) {
	data := make([]byte, IDBlockSize)
	copy(data, "NOTMDF  ")

	b := &IDBlock{}
	err := b.Parse(data)
	require.ErrorIs(t, err, errs.ErrInvalidFileMagic)
}

func TestIDBlock_Parse_WrongSize(t *testing.T) {
	b := &IDBlock{}
	err := b.Parse(make([]byte, 10))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestHDBlock_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	orig := &HDBlock{
		PointerToFirstDG: 64,
		NumDataGroups:    1,
		TimeStampNs:      1700000000000000000,
	}
	SetText(orig.Author[:], "tester")
	SetText(orig.Date[:], "01:01:2026")
	SetText(orig.Time[:], "00:00:00")

	data := orig.Bytes(engine)
	require.Len(t, data, HDBlockSize)

	parsed := &HDBlock{}
	require.NoError(t, parsed.Parse(data, engine))
	require.Equal(t, orig.PointerToFirstDG, parsed.PointerToFirstDG)
	require.Equal(t, orig.NumDataGroups, parsed.NumDataGroups)
	require.Equal(t, orig.TimeStampNs, parsed.TimeStampNs)
	require.Equal(t, "tester", trimNUL(parsed.Author[:]))
}

func TestDGBlock_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	orig := &DGBlock{PointerToFirstCG: 272, NumChannelGroups: 1, NumRecordIDs: 0}
	data := orig.Bytes(engine)
	require.Len(t, data, DGBlockSize)

	parsed := &DGBlock{}
	require.NoError(t, parsed.Parse(data, engine))
	require.Equal(t, orig.PointerToFirstCG, parsed.PointerToFirstCG)
	require.Equal(t, 0, parsed.RecordIDWidth())

	parsed.NumRecordIDs = 1
	require.Equal(t, 1, parsed.RecordIDWidth())
	parsed.NumRecordIDs = 2
	require.Equal(t, 2, parsed.RecordIDWidth())
}

func TestCGBlock_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	orig := &CGBlock{PointerToFirstCN: 302, NumChannels: 3, DataRecordSize: 12, NumRecords: 500}
	data := orig.Bytes(engine)
	require.Len(t, data, CGBlockSize)

	parsed := &CGBlock{}
	require.NoError(t, parsed.Parse(data, engine))
	require.Equal(t, orig.NumChannels, parsed.NumChannels)
	require.Equal(t, orig.DataRecordSize, parsed.DataRecordSize)
	require.Equal(t, orig.NumRecords, parsed.NumRecords)
}

func TestCNBlock_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	orig := &CNBlock{
		ChannelType:    ChannelTypeMaster,
		BitOffset:      0,
		NumberOfBits:   32,
		SignalDataType: 2,
		Min:            -1.5,
		Max:            99.25,
		SamplingRate:   0.01,
		ByteOffset:     0,
	}
	copy(orig.Name[:], "time")
	copy(orig.Description[:], "master time channel")

	data := orig.Bytes(engine)
	require.Len(t, data, CNBlockSize)

	parsed := &CNBlock{}
	require.NoError(t, parsed.Parse(data, engine))
	require.Equal(t, "time", parsed.NameString())
	require.Equal(t, "master time channel", parsed.DescriptionString())
	require.Equal(t, orig.Min, parsed.Min)
	require.Equal(t, orig.Max, parsed.Max)
	require.Equal(t, orig.SamplingRate, parsed.SamplingRate)
	require.Equal(t, ChannelTypeMaster, parsed.ChannelType)
}

func TestCCBlock_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	orig := &CCBlock{
		ValueRangeValid: 1,
		Min:             0,
		Max:             100,
		ConversionType:  NoConversion,
	}
	copy(orig.Unit[:], "degC")

	data := orig.Bytes(engine)
	require.Len(t, data, CCBlockSize)

	parsed := &CCBlock{}
	require.NoError(t, parsed.Parse(data, engine))
	require.Equal(t, "degC", parsed.UnitString())
	require.Equal(t, NoConversion, parsed.ConversionType)
	require.Equal(t, orig.Max, parsed.Max)
}

func TestTXBlock_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	orig := TXBlock{Text: "engine speed, filtered"}
	data := orig.Bytes(engine)

	parsed, consumed, err := ParseTXBlock(data, engine)
	require.NoError(t, err)
	require.Equal(t, len(data), consumed)
	require.Equal(t, orig.Text, parsed.Text)
}

func TestTXBlock_Parse_WrongID(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	data := make([]byte, 8)
	copy(data, "XX")
	engine.PutUint16(data[2:4], 8)

	_, _, err := ParseTXBlock(data, engine)
	require.ErrorIs(t, err, errs.ErrInvalidBlockID)
}

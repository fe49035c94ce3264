package mdf

import (
	"bytes"
	"io"
	"testing"

	"github.com/arloliu/mdf/blocks"
	"github.com/arloliu/mdf/container"
	"github.com/arloliu/mdf/descriptor"
	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/mdfwriter"
	"github.com/stretchr/testify/require"
)

// memWriteSeeker is a minimal in-memory io.WriteSeeker, standing in for a
// real file during tests.
type memWriteSeeker struct {
	buf []byte
	pos int64
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end

	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	}

	return m.pos, nil
}

// parseGroup walks one written data group's block graph back into a
// blocks.ChannelGroupInfo, the shape ReadSortedGroup expects a metadata
// parser to have already assembled. The writer always stamps the full
// channel name into CNBlock.Name when it fits in 31 bytes (true for every
// name in this test), so the long-name TX block doesn't need parsing here.
func parseGroup(t *testing.T, data []byte, dgOffset uint32, engine endian.EndianEngine) (blocks.DGBlock, blocks.ChannelGroupInfo) {
	t.Helper()

	var dg blocks.DGBlock
	require.NoError(t, dg.Parse(data[dgOffset:dgOffset+blocks.DGBlockSize], engine))

	var cg blocks.CGBlock
	require.NoError(t, cg.Parse(data[dg.PointerToFirstCG:dg.PointerToFirstCG+blocks.CGBlockSize], engine))

	info := blocks.ChannelGroupInfo{CG: cg}
	cnPtr := cg.PointerToFirstCN
	for i := 0; i < int(cg.NumChannels); i++ {
		var cn blocks.CNBlock
		require.NoError(t, cn.Parse(data[cnPtr:cnPtr+blocks.CNBlockSize], engine))

		var cc blocks.CCBlock
		require.NoError(t, cc.Parse(data[cn.PointerToCC:cn.PointerToCC+blocks.CCBlockSize], engine))

		info.Channels = append(info.Channels, blocks.ChannelInfo{CN: cn, CC: &cc})

		cnPtr = cn.PointerToNextCN
	}

	return dg, info
}

func TestReadSortedGroup_RoundTripsWriter(t *testing.T) {
	set := NewContainer()
	require.NoError(t, set.AddChannel(0, "t", container.Column{Float: []float64{0, 1, 2}}, "t", 1, "s", "time", descriptor.Identity()))
	require.NoError(t, set.AddChannel(0, "x", container.Column{Float: []float64{10, 20, 30}}, "t", 1, "kPa", "pressure", descriptor.Identity()))

	dst := &memWriteSeeker{}
	require.NoError(t, NewWriter(dst).Write(set, mdfwriter.Metadata{Author: "tester"}))

	data := dst.buf
	engine := endian.GetLittleEndianEngine()

	var hd blocks.HDBlock
	require.NoError(t, hd.Parse(data[blocks.IDBlockSize:blocks.IDBlockSize+blocks.HDBlockSize], engine))

	dg, info := parseGroup(t, data, hd.PointerToFirstDG, engine)

	out, err := ReadSortedGroup(bytes.NewReader(data[dg.PointerToDataRecords:]), false, 0, info, nil, nil)
	require.NoError(t, err)

	tCh, ok := out.Channel("t")
	require.True(t, ok)
	require.Equal(t, []float64{0, 1, 2}, tCh.Column.Float)

	xCh, ok := out.Channel("x")
	require.True(t, ok)
	require.Equal(t, []float64{10, 20, 30}, xCh.Column.Float)
}

func TestChannelID_StableAcrossCalls(t *testing.T) {
	require.Equal(t, ChannelID("engine_speed"), ChannelID("engine_speed"))
	require.NotEqual(t, ChannelID("engine_speed"), ChannelID("coolant_temp"))
}

// Package mdfwriter implements the MDF 3.30 writer (component H): a single
// forward pass over a container.Set that emits IDBlock/HDBlock followed by
// one DG/CG/CN*/TX/CC/data group per data group, back-patching forward
// pointers by seeking once the pointed-to block's offset becomes known.
package mdfwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/arloliu/mdf/blocks"
	"github.com/arloliu/mdf/container"
	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/internal/options"
	"github.com/arloliu/mdf/internal/pool"
	"github.com/arloliu/mdf/internal/stats"
	"github.com/arloliu/mdf/signaltype"
)

// programID is the literal ProgramID the writer stamps into the IDBlock.
const programID = "MDFreadr"

// Metadata carries the HD block's free-text fields. An empty field is
// written as a single space, matching the default the writer falls back to
// when the caller doesn't supply one.
type Metadata struct {
	Author       string
	Organization string
	Project      string
	Subject      string
}

// Writer emits one MDF 3.30 file to dst, which must support Seek for
// back-patching forward block pointers.
type Writer struct {
	dst       io.WriteSeeker
	engine    endian.EndianEngine
	bigEndian bool
	cursor    int64
}

// WriterOption configures a Writer at construction time.
type WriterOption = options.Option[*Writer]

// WithBigEndian writes the file's numeric fields big-endian and sets the
// IDBlock's ByteOrder flag accordingly. Little-endian is the default.
func WithBigEndian() WriterOption {
	return options.NoError(func(w *Writer) {
		w.engine = endian.GetBigEndianEngine()
		w.bigEndian = true
	})
}

// WithLittleEndian writes the file little-endian. It is the default; the
// option exists to let callers cancel an earlier WithBigEndian.
func WithLittleEndian() WriterOption {
	return options.NoError(func(w *Writer) {
		w.engine = endian.GetLittleEndianEngine()
		w.bigEndian = false
	})
}

// New creates a Writer over dst. dst's current position must be the start
// of the file; Writer never seeks past w.cursor except to patch and return.
func New(dst io.WriteSeeker, opts ...WriterOption) *Writer {
	w := &Writer{dst: dst, engine: endian.GetLittleEndianEngine()}
	_ = options.Apply(w, opts...) // WriterOptions never fail (NoError-wrapped)

	return w
}

// Write emits set as a complete MDF 3.30 file: one data group per
// set.DataGroups(), in that order.
func (w *Writer) Write(set *container.Set, meta Metadata) error {
	groups := set.DataGroups()

	if err := w.writeIDBlock(); err != nil {
		return err
	}
	if err := w.writeHDBlock(len(groups), meta); err != nil {
		return err
	}

	prevNextDGOffset := int64(-1)
	for _, dg := range groups {
		dgStart := w.cursor
		if prevNextDGOffset >= 0 {
			if err := w.patchUint32(prevNextDGOffset, uint32(dgStart)); err != nil {
				return err
			}
		}

		channels, err := orderedChannels(set, dg)
		if err != nil {
			return fmt.Errorf("data group %d: %w", dg, err)
		}

		nextDGOffset, err := w.writeDataGroup(channels)
		if err != nil {
			return fmt.Errorf("data group %d: %w", dg, err)
		}
		prevNextDGOffset = nextDGOffset
	}

	return nil
}

func (w *Writer) write(p []byte) error {
	n, err := w.dst.Write(p)
	w.cursor += int64(n)

	return err
}

func (w *Writer) patchUint32(offset int64, v uint32) error {
	buf := make([]byte, 4)
	w.engine.PutUint32(buf, v)

	return w.patch(offset, buf)
}

func (w *Writer) patchUint16(offset int64, v uint16) error {
	buf := make([]byte, 2)
	w.engine.PutUint16(buf, v)

	return w.patch(offset, buf)
}

func (w *Writer) patch(offset int64, buf []byte) error {
	if _, err := w.dst.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.dst.Write(buf); err != nil {
		return err
	}
	_, err := w.dst.Seek(w.cursor, io.SeekStart)

	return err
}

func (w *Writer) writeIDBlock() error {
	id := blocks.NewIDBlock(programID)
	if w.bigEndian {
		id.ByteOrder = 1
	}

	return w.write(id.Bytes())
}

func (w *Writer) writeHDBlock(numDataGroups int, meta Metadata) error {
	now := time.Now()

	hd := blocks.HDBlock{
		PointerToFirstDG:      uint32(blocks.IDBlockSize + blocks.HDBlockSize),
		PointerToFileComment:  0,
		PointerToProgramBlock: 0,
		NumDataGroups:         uint16(numDataGroups),
		TimeStampNs:           uint64(now.UnixNano()),
		UTCTimeOffset:         1,
		TimeQuality:           0,
	}
	copy(hd.Date[:], now.Format("02:01:2006"))
	copy(hd.Time[:], now.Format("15:04:05"))
	setField31(hd.Author[:], meta.Author)
	setField31(hd.Organization[:], meta.Organization)
	setField31(hd.Project[:], meta.Project)
	setField31(hd.Subject[:], meta.Subject)
	blocks.SetText(hd.TimerID[:], "Local PC Reference Time")

	return w.write(hd.Bytes(w.engine))
}

// setField31 writes s (or a single space if empty) into a 32-byte field,
// truncated to 31 characters so the final byte is always left NUL.
func setField31(dst []byte, s string) {
	if s == "" {
		s = " "
	}
	if len(s) > 31 {
		s = s[:31]
	}
	blocks.SetText(dst, s)
}

// orderedChannels returns dg's channels from set with the master moved to
// position 0, validated to all share the master's length.
func orderedChannels(set *container.Set, dg int) ([]container.Channel, error) {
	chs := set.ChannelsInGroup(dg)
	if len(chs) == 0 {
		return nil, errs.ErrNoChannels
	}

	masterIdx := -1
	for i, ch := range chs {
		if ch.IsMaster() {
			masterIdx = i

			break
		}
	}
	if masterIdx < 0 {
		return nil, errs.ErrNoMasterChannel
	}

	ordered := make([]container.Channel, 0, len(chs))
	ordered = append(ordered, chs[masterIdx])
	for i, ch := range chs {
		if i != masterIdx {
			ordered = append(ordered, ch)
		}
	}

	masterLen := ordered[0].Column.Len()
	for _, ch := range ordered[1:] {
		if ch.Column.Len() != masterLen {
			return nil, fmt.Errorf("%w: channel %q has %d samples, master has %d", errs.ErrMismatchedLength, ch.Name, ch.Column.Len(), masterLen)
		}
	}

	return ordered, nil
}

// resolvedChannel is a channel paired with the native type/size/code the
// writer decided to emit it as.
type resolvedChannel struct {
	ch       container.Channel
	nt       signaltype.NativeType
	itemSize int
	code     uint16
	isText   bool
}

func resolveChannel(ch container.Channel) (resolvedChannel, error) {
	if ch.Column.Text != nil {
		width := 1
		for _, s := range ch.Column.Text {
			if len(s) > width {
				width = len(s)
			}
		}

		return resolvedChannel{ch: ch, nt: signaltype.NativeText, itemSize: width, code: 7, isText: true}, nil
	}

	nt := signaltype.NativeFloat64
	if ch.Column.WriteType != nil {
		nt = *ch.Column.WriteType
	}

	code, err := dataTypeCode(nt)
	if err != nil {
		return resolvedChannel{}, fmt.Errorf("channel %q: %w", ch.Name, err)
	}

	return resolvedChannel{ch: ch, nt: nt, itemSize: numericItemSize(nt), code: code}, nil
}

// writeDataGroup emits one DG/CG/CN*/TX/CC group plus its interleaved data
// block, and returns the absolute offset of this DG's own PointerToNextDG
// field so the caller can patch it once the next data group's start is
// known (or leave it 0 if this was the last group).
func (w *Writer) writeDataGroup(channels []container.Channel) (int64, error) {
	resolved := make([]resolvedChannel, len(channels))
	for i, ch := range channels {
		r, err := resolveChannel(ch)
		if err != nil {
			return 0, err
		}
		resolved[i] = r
	}

	nRecords := resolved[0].ch.Column.Len()

	var samplingRate float64
	if !resolved[0].isText {
		samplingRate = stats.MeanDiff(resolved[0].ch.Column.Float)
	}

	dgStart := w.cursor
	dg := blocks.DGBlock{
		PointerToFirstCG: uint32(dgStart + blocks.DGBlockSize),
		NumChannelGroups: 1,
		NumRecordIDs:     0,
	}
	if err := w.write(dg.Bytes(w.engine)); err != nil {
		return 0, err
	}
	nextDGOffset := dgStart + 4

	cgStart := w.cursor
	cg := blocks.CGBlock{
		PointerToFirstCN: uint32(cgStart + blocks.CGBlockSize),
		NumChannels:      uint16(len(resolved)),
		NumRecords:       uint32(nRecords),
	}
	if err := w.write(cg.Bytes(w.engine)); err != nil {
		return 0, err
	}
	dataRecordSizeOffset := cgStart + 20

	totalBytes := 0
	prevNextCNOffset := int64(-1)
	for _, r := range resolved {
		cnStart := w.cursor
		if prevNextCNOffset >= 0 {
			if err := w.patchUint32(prevNextCNOffset, uint32(cnStart)); err != nil {
				return 0, err
			}
		}

		channelType := blocks.ChannelTypeData
		if r.ch.IsMaster() {
			channelType = blocks.ChannelTypeMaster
		}

		var valueRangeValid uint16
		var minV, maxV float64
		if !r.isText {
			valueRangeValid = 1
			minV, maxV, _ = stats.MinMax(r.ch.Column.Float)
		}

		cn := blocks.CNBlock{
			ChannelType:     channelType,
			BitOffset:       0,
			NumberOfBits:    uint16(r.itemSize * 8),
			SignalDataType:  r.code,
			ValueRangeValid: valueRangeValid,
			Min:             minV,
			Max:             maxV,
			SamplingRate:    samplingRate,
			ByteOffset:      uint16(totalBytes),
		}
		blocks.SetText(cn.Name[:31], r.ch.Name)
		blocks.SetText(cn.Description[:127], r.ch.Description)
		if err := w.write(cn.Bytes(w.engine)); err != nil {
			return 0, err
		}
		prevNextCNOffset = cnStart + 4

		txStart := w.cursor
		tx := blocks.TXBlock{Text: r.ch.Name}
		if err := w.write(tx.Bytes(w.engine)); err != nil {
			return 0, err
		}
		if err := w.patchUint32(cnStart+218, uint32(txStart)); err != nil {
			return 0, err
		}

		ccStart := w.cursor
		cc := blocks.CCBlock{
			ValueRangeValid: valueRangeValid,
			Min:             minV,
			Max:             maxV,
			ConversionType:  blocks.NoConversion,
		}
		blocks.SetText(cc.Unit[:19], r.ch.Unit)
		if err := w.write(cc.Bytes(w.engine)); err != nil {
			return 0, err
		}
		if err := w.patchUint32(cnStart+8, uint32(ccStart)); err != nil {
			return 0, err
		}

		totalBytes += r.itemSize
	}

	if err := w.patchUint16(dataRecordSizeOffset, uint16(totalBytes)); err != nil {
		return 0, err
	}

	dataStart := w.cursor
	if err := w.patchUint32(dgStart+16, uint32(dataStart)); err != nil {
		return 0, err
	}

	if err := w.writeDataBlock(resolved, nRecords, totalBytes); err != nil {
		return 0, err
	}

	return nextDGOffset, nil
}

// writeDataBlock emits the interleaved record stream: for each record index,
// each channel's value in channel order, back to back.
func (w *Writer) writeDataBlock(resolved []resolvedChannel, nRecords, recordSize int) error {
	buf := pool.GetWriteBuffer()
	defer pool.PutWriteBuffer(buf)
	buf.ExtendOrGrow(recordSize * nRecords)

	offset := 0
	for _, r := range resolved {
		for i := 0; i < nRecords; i++ {
			dst := buf.Slice(offset+i*recordSize, offset+i*recordSize+r.itemSize)
			if r.isText {
				encodeText(dst, r.ch.Column.Text[i])
			} else {
				encodeNumeric(dst, r.nt, w.engine, r.ch.Column.Float[i])
			}
		}
		offset += r.itemSize
	}

	return w.write(buf.Bytes())
}

package record

import (
	"fmt"
	"io"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/internal/pool"
	"github.com/arloliu/mdf/schema"
	"github.com/arloliu/mdf/signaltype"
)

// UnsortedReader decodes a data group whose channel groups are multiplexed
// by a leading record-ID byte (component E).
type UnsortedReader struct {
	schemas map[int]*schema.RecordSchema
	engine  endian.EndianEngine
}

// NewUnsortedReader builds a reader dispatching records to the schema
// registered under each record ID.
func NewUnsortedReader(schemas map[int]*schema.RecordSchema, engine endian.EndianEngine) *UnsortedReader {
	return &UnsortedReader{schemas: schemas, engine: engine}
}

// Read decodes every record in the blockLength-byte block read from src,
// returning the decoded columns grouped by record ID then channel name.
func (r *UnsortedReader) Read(src io.Reader, blockLength int) (map[int]map[string]*Column, error) {
	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)
	buf.ExtendOrGrow(blockLength)
	data := buf.Bytes()[:blockLength]

	if _, err := io.ReadFull(src, data); err != nil {
		return nil, &errs.DecodeError{Err: fmt.Errorf("%w: %w", errs.ErrUnexpectedEOF, err)}
	}

	acc := make(map[int]map[string]*accumulator)
	recordIdx := 0
	cursor := 0

	for cursor < blockLength {
		recordID := int(data[cursor])
		cursor++

		sc, ok := r.schemas[recordID]
		if !ok {
			return nil, &errs.DecodeError{RecordIndex: recordIdx, Err: fmt.Errorf("%w: %d", errs.ErrUnknownRecordID, recordID)}
		}

		if cursor+sc.CGRecordLength > blockLength {
			return nil, &errs.DecodeError{RecordIndex: recordIdx, Err: errs.ErrUnexpectedEOF}
		}

		body := data[cursor : cursor+sc.CGRecordLength]
		if acc[recordID] == nil {
			acc[recordID] = make(map[string]*accumulator, len(sc.Channels))
		}

		decodedSlots := make(map[int]bool, len(sc.NativeSchema))
		for i := range sc.Channels {
			ch := &sc.Channels[i]
			slotIdx := sc.RecordToSlot[ch.Name]
			if decodedSlots[slotIdx] {
				continue
			}
			decodedSlots[slotIdx] = true

			slot := sc.NativeSchema[slotIdx]
			buf := body[slot.ByteOffset : slot.ByteOffset+slot.NBytes]
			raw, f, text, bts := decodeSlot(buf, slot.NativeType, ch.NBytes, r.engine)

			a := acc[recordID][slot.Name]
			if a == nil {
				a = &accumulator{nativeType: slot.NativeType, itemSize: ch.NBytes}
				acc[recordID][slot.Name] = a
			}
			a.append(raw, f, text, bts)
		}

		cursor += sc.CGRecordLength
		if sc.RecordIDWidth == 2 {
			cursor++ // trailing record-ID byte
		}
		recordIdx++
	}

	out := make(map[int]map[string]*Column, len(acc))
	for recordID, channels := range acc {
		cols := make(map[string]*Column, len(channels))
		for name, a := range channels {
			cols[name] = a.toColumn(name)
		}
		out[recordID] = cols
	}

	return out, nil
}

// accumulator grows one channel's decoded values one record at a time; the
// unsorted reader doesn't know a channel's record count in advance.
type accumulator struct {
	nativeType signaltype.NativeType
	itemSize   int
	raw        []uint64
	float      []float64
	text       []string
	bytes      [][]byte
}

func (a *accumulator) append(raw uint64, f float64, text string, bts []byte) {
	switch a.nativeType {
	case signaltype.NativeFloat32, signaltype.NativeFloat64:
		a.float = append(a.float, f)
	case signaltype.NativeText:
		a.text = append(a.text, text)
	case signaltype.NativeBytes:
		a.bytes = append(a.bytes, bts)
	default:
		a.raw = append(a.raw, raw)
	}
}

func (a *accumulator) toColumn(name string) *Column {
	return &Column{
		Name:       name,
		NativeType: a.nativeType,
		ItemSize:   a.itemSize,
		Raw:        a.raw,
		Float:      a.float,
		Text:       a.text,
		Bytes:      a.bytes,
	}
}

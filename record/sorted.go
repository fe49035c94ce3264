package record

import (
	"fmt"
	"io"
	"sync"

	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/internal/options"
	"github.com/arloliu/mdf/internal/pool"
	"github.com/arloliu/mdf/schema"
)

// SortedReader decodes the single channel group of a sorted data group
// (component D).
type SortedReader struct {
	schema   *schema.RecordSchema
	engine   endian.EndianEngine
	parallel bool
}

// ReaderOption configures a SortedReader at construction time.
type ReaderOption = options.Option[*SortedReader]

// WithParallelDecode toggles decoding the fast path's channels concurrently,
// one goroutine per channel. Each channel decodes into its own Column from
// a disjoint byte range of the shared record buffer, so there's no data
// race to guard against; it only pays off when a data group has enough
// channels and records to outweigh goroutine overhead. Off by default.
func WithParallelDecode(enabled bool) ReaderOption {
	return options.NoError(func(r *SortedReader) { r.parallel = enabled })
}

// NewSortedReader builds a reader for s, decoding multi-byte fields with engine.
func NewSortedReader(s *schema.RecordSchema, engine endian.EndianEngine, opts ...ReaderOption) *SortedReader {
	r := &SortedReader{schema: s, engine: engine}
	_ = options.Apply(r, opts...) // ReaderOptions never fail (NoError-wrapped)

	return r
}

// Read decodes every record from src, returning one Column per requested
// channel plus the master channel (always included). An empty channelSet
// means "all channels" and takes the fast structured-bulk-read path when the
// schema is byte-aligned with no hidden bytes; otherwise every channel is
// decoded by slicing each record individually.
func (r *SortedReader) Read(src io.Reader, channelSet map[string]bool) (map[string]*Column, error) {
	s := r.schema
	total := s.NumberOfRecords * s.TotalRecordLength()

	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)
	buf.ExtendOrGrow(total)
	data := buf.Bytes()[:total]

	if _, err := io.ReadFull(src, data); err != nil {
		return nil, &errs.DecodeError{Err: fmt.Errorf("%w: %w", errs.ErrUnexpectedEOF, err)}
	}

	prefix := s.RecordIDPrefixWidth()
	stride := s.TotalRecordLength()

	out := make(map[string]*Column, len(s.NativeSchema))

	if s.FastPathEligible(channelSet) {
		slots := make([]schema.NativeSlot, 0, len(s.NativeSchema))
		for _, slot := range s.NativeSchema {
			if slot.ByteOffset >= 0 { // skip record-ID slots, not decoded channels
				slots = append(slots, slot)
			}
		}

		cols := make([]*Column, len(slots))
		decodeOne := func(i int) {
			slot := slots[i]
			col := decodeStrided(data, prefix+slot.ByteOffset, stride, s.NumberOfRecords, slot.NativeType, itemSizeOf(s, slot.Name), r.engine)
			col.Name = slot.Name
			cols[i] = col
		}

		if r.parallel && len(slots) > 1 {
			var wg sync.WaitGroup
			for i := range slots {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					decodeOne(i)
				}(i)
			}
			wg.Wait()
		} else {
			for i := range slots {
				decodeOne(i)
			}
		}

		for _, col := range cols {
			out[col.Name] = col
		}

		return out, nil
	}

	// Slow path: decode exactly the requested channels (master force-added),
	// slicing [pos_byte_beg, pos_byte_end) out of each record directly.
	want := channelSet
	if len(want) == 0 {
		want = allChannelNames(s)
	}

	decodedSlots := make(map[int]bool)
	for i := range s.Channels {
		ch := &s.Channels[i]
		if !want[ch.Name] && ch.Name != s.Master.Name {
			continue
		}

		slotIdx := s.RecordToSlot[ch.Name]
		if decodedSlots[slotIdx] {
			continue
		}
		decodedSlots[slotIdx] = true

		slot := s.NativeSchema[slotIdx]
		col := decodeStrided(data, prefix+slot.ByteOffset, stride, s.NumberOfRecords, slot.NativeType, ch.NBytes, r.engine)
		col.Name = slot.Name
		out[slot.Name] = col
	}

	return out, nil
}

func itemSizeOf(s *schema.RecordSchema, name string) int {
	for i := range s.Channels {
		if s.Channels[i].Name == name {
			return s.Channels[i].NBytes
		}
	}

	return 0
}

func allChannelNames(s *schema.RecordSchema) map[string]bool {
	m := make(map[string]bool, len(s.Channels))
	for i := range s.Channels {
		m[s.Channels[i].Name] = true
	}

	return m
}

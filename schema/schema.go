// Package schema builds a RecordSchema (component C) from a channel group's
// descriptors: the byte/bit layout the record decoder walks to turn a raw
// record buffer into per-channel columns.
package schema

import (
	"fmt"
	"sort"

	"github.com/arloliu/mdf/descriptor"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/signaltype"
)

// NativeSlot is one contiguous storage region in the record body. Several
// bit-packed channels may alias the same slot; every byte-aligned channel
// owns exactly one slot.
type NativeSlot struct {
	Name       string // the owning channel's name, or "RecordID1"/"RecordID2"
	NativeType signaltype.NativeType
	ByteOffset int // within the record body, excludes record-ID bytes
	NBytes     int
}

// MasterInfo names the channel group's master channel and its position in
// Channels.
type MasterInfo struct {
	Name  string
	Index int
}

// RecordSchema is the fully-resolved layout of one channel group's records.
type RecordSchema struct {
	RecordID       int
	HasRecordID    bool
	RecordIDWidth  int // 0, 1, or 2
	CGRecordLength int // bytes, excludes record-ID bytes
	NumberOfRecords int

	Channels []descriptor.ChannelDescriptor // ordered by byte_offset, ties by bit_offset

	RecordToSlot map[string]int // channel name -> index into NativeSchema
	NativeSchema []NativeSlot

	ByteAligned bool
	HiddenBytes bool
	Master      *MasterInfo
}

// Params bundles the channel-group-level facts Build needs
// beyond the channel descriptors themselves.
type Params struct {
	RecordID        int
	HasRecordID     bool
	RecordIDWidth   int
	CGRecordLength  int
	NumberOfRecords int
}

// Build constructs a RecordSchema from a channel group's channel
// descriptors, per the format's record-schema algorithm (walk channels in
// byte/bit order, detect embedded bit-packing and byte-alignment
// violations, insert record-ID slots, detect hidden trailing bytes).
func Build(channels []descriptor.ChannelDescriptor, p Params) (*RecordSchema, error) {
	if len(channels) == 0 {
		return nil, errs.ErrNoChannels
	}

	ordered := make([]descriptor.ChannelDescriptor, len(channels))
	copy(ordered, channels)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].ByteOffset != ordered[j].ByteOffset {
			return ordered[i].ByteOffset < ordered[j].ByteOffset
		}

		return ordered[i].BitOffset < ordered[j].BitOffset
	})

	s := &RecordSchema{
		RecordID:        p.RecordID,
		HasRecordID:     p.HasRecordID,
		RecordIDWidth:   p.RecordIDWidth,
		CGRecordLength:  p.CGRecordLength,
		NumberOfRecords: p.NumberOfRecords,
		Channels:        ordered,
		RecordToSlot:    make(map[string]int, len(ordered)),
		ByteAligned:     true,
	}

	if s.RecordIDWidth >= 1 {
		s.NativeSchema = append(s.NativeSchema, NativeSlot{
			Name:       "RecordID1",
			NativeType: signaltype.NativeUint8,
			ByteOffset: -1, // prefix, not part of the body
			NBytes:     1,
		})
	}

	recordLength := 0

	var prev *descriptor.ChannelDescriptor
	for i := range ordered {
		ch := &ordered[i]

		if ch.ByteOffset+ch.NBytes > s.CGRecordLength {
			return nil, &errs.SchemaError{Channel: ch.Name, Err: errs.ErrBitLayoutExceedsRecord}
		}

		if s.Master == nil && ch.IsMaster() {
			s.Master = &MasterInfo{Name: ch.Name, Index: i}
		}

		if prev == nil {
			s.NativeSchema = append(s.NativeSchema, NativeSlot{
				Name:       ch.Name,
				NativeType: ch.NativeType,
				ByteOffset: ch.ByteOffset,
				NBytes:     ch.NBytes,
			})
			s.RecordToSlot[ch.Name] = len(s.NativeSchema) - 1
			recordLength += ch.NBytes
			prev = ch

			continue
		}

		slotStart := 8 * prev.PosByteBeg
		slotEnd := 8 * (prev.PosByteBeg + prev.NBytes)
		embedded := ch.PosBitBeg >= slotStart && ch.PosBitEnd <= slotEnd

		if embedded {
			s.RecordToSlot[ch.Name] = s.RecordToSlot[prev.Name]

			continue
		}

		if ch.PosByteBeg < prev.PosByteEnd {
			// overlaps the previous channel's bytes without being fully
			// contained in its slot: a straddle.
			s.ByteAligned = false
		}

		s.NativeSchema = append(s.NativeSchema, NativeSlot{
			Name:       ch.Name,
			NativeType: ch.NativeType,
			ByteOffset: ch.ByteOffset,
			NBytes:     ch.NBytes,
		})
		s.RecordToSlot[ch.Name] = len(s.NativeSchema) - 1
		recordLength += ch.NBytes
		prev = ch
	}

	if s.Master == nil {
		s.Master = &MasterInfo{Name: ordered[0].Name, Index: 0}
	}

	if s.RecordIDWidth == 2 {
		s.NativeSchema = append(s.NativeSchema, NativeSlot{
			Name:       "RecordID2",
			NativeType: signaltype.NativeUint8,
			ByteOffset: -1, // suffix, not part of the body
			NBytes:     1,
		})
	}

	if s.CGRecordLength > recordLength {
		s.HiddenBytes = true
	}

	return s, nil
}

// TotalRecordLength returns the full on-disk record size, including the
// record-ID prefix/suffix bytes.
func (s *RecordSchema) TotalRecordLength() int {
	n := s.CGRecordLength
	if s.RecordIDWidth >= 1 {
		n++
	}
	if s.RecordIDWidth == 2 {
		n++
	}

	return n
}

// RecordIDPrefixWidth returns 1 if a record-ID prefix byte is present, else 0.
func (s *RecordSchema) RecordIDPrefixWidth() int {
	if s.RecordIDWidth >= 1 {
		return 1
	}

	return 0
}

// FastPathEligible reports whether the sorted block reader may use the
// structured bulk-read fast path: no channel filter, byte-aligned, and no
// hidden trailing bytes.
func (s *RecordSchema) FastPathEligible(channelSet map[string]bool) bool {
	return len(channelSet) == 0 && s.ByteAligned && !s.HiddenBytes
}

// String implements fmt.Stringer for debugging.
func (s *RecordSchema) String() string {
	return fmt.Sprintf("RecordSchema{channels=%d, recordLength=%d, byteAligned=%v, hiddenBytes=%v}",
		len(s.Channels), s.CGRecordLength, s.ByteAligned, s.HiddenBytes)
}

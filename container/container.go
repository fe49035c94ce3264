// Package container implements a minimal reference "mdf_skeleton"
// collaborator: something the reader can hand decoded, converted channels to
// and the writer can read them back from, keyed by hashed channel name for
// O(1) lookup. The writer takes its input only as this type
// (mdfwriter.Writer.Write accepts a *Set) and reads each data group's
// channels in insertion order, master first.
package container

import (
	"fmt"

	"github.com/arloliu/mdf/descriptor"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/internal/namehash"
	"github.com/arloliu/mdf/signaltype"
)

// Column is a physical (post-conversion) channel column: exactly one of
// Float or Text holds data, mirroring convert.PhysicalColumn. WriteType
// optionally requests the on-disk numeric width the writer should emit
// (e.g. a channel known to hold whole-number counts can ask for
// signaltype.NativeUint32 instead of the default float64); nil means
// "writer picks its own default" (float64 for numeric, fixed-width text
// for Text).
type Column struct {
	Float     []float64
	Text      []string
	WriteType *signaltype.NativeType
}

// Len returns the number of samples in the column.
func (c Column) Len() int {
	if c.Text != nil {
		return len(c.Text)
	}

	return len(c.Float)
}

// Channel is one named signal stored in a Set: its data group membership,
// master relationship, physical column, and descriptive metadata.
type Channel struct {
	Name        string
	DataGroup   int
	Column      Column
	MasterName  string
	MasterType  int // type of the group's master; mdf's group readers store blocks.ChannelTypeMaster for every channel
	Unit        string
	Description string
	Conversion  descriptor.ConversionSpec
}

// IsMaster reports whether this channel is its group's master (abscissa).
func (c Channel) IsMaster() bool { return c.Name == c.MasterName }

// Set is a reference container of decoded channels, grouped by data group
// and indexed by hashed name.
type Set struct {
	byHash map[uint64]*Channel
	order  map[int][]uint64 // dataGroup -> hash keys in insertion order
	groups []int            // data group indices in first-seen order
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{
		byHash: make(map[uint64]*Channel),
		order:  make(map[int][]uint64),
	}
}

// AddChannel registers a channel's decoded data in the set. Re-adding a name
// that already exists in the same data group overwrites it in place without
// disturbing its position.
func (s *Set) AddChannel(dataGroup int, name string, col Column, masterName string, masterType int, unit, description string, conv descriptor.ConversionSpec) error {
	if name == "" {
		return fmt.Errorf("%w: channel name is empty", errs.ErrNoChannels)
	}

	key := namehash.ID(name)
	if existing, ok := s.byHash[key]; ok {
		*existing = Channel{
			Name: name, DataGroup: dataGroup, Column: col, MasterName: masterName,
			MasterType: masterType, Unit: unit, Description: description, Conversion: conv,
		}

		return nil
	}

	ch := &Channel{
		Name: name, DataGroup: dataGroup, Column: col, MasterName: masterName,
		MasterType: masterType, Unit: unit, Description: description, Conversion: conv,
	}
	s.byHash[key] = ch

	if _, seen := s.order[dataGroup]; !seen {
		s.groups = append(s.groups, dataGroup)
	}
	s.order[dataGroup] = append(s.order[dataGroup], key)

	return nil
}

// Channel looks up a channel by name.
func (s *Set) Channel(name string) (Channel, bool) {
	ch, ok := s.byHash[namehash.ID(name)]
	if !ok {
		return Channel{}, false
	}

	return *ch, true
}

// DataGroups returns the data group indices in first-seen order.
func (s *Set) DataGroups() []int {
	out := make([]int, len(s.groups))
	copy(out, s.groups)

	return out
}

// ChannelsInGroup returns dataGroup's channels in insertion order.
func (s *Set) ChannelsInGroup(dataGroup int) []Channel {
	keys := s.order[dataGroup]
	out := make([]Channel, 0, len(keys))
	for _, k := range keys {
		out = append(out, *s.byHash[k])
	}

	return out
}

// Package mdf provides convenient top-level wrappers around blocks,
// descriptor, schema, record, convert, container, and mdfwriter for the
// common case: decode one channel group (sorted or unsorted) straight into
// a container.Set, or open a Writer. For fine-grained control, use the
// component packages directly.
package mdf

import (
	"io"

	"github.com/arloliu/mdf/blocks"
	"github.com/arloliu/mdf/container"
	"github.com/arloliu/mdf/convert"
	"github.com/arloliu/mdf/descriptor"
	"github.com/arloliu/mdf/endian"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/internal/namehash"
	"github.com/arloliu/mdf/mdfwriter"
	"github.com/arloliu/mdf/record"
	"github.com/arloliu/mdf/schema"
)

// ChannelID computes the stable 64-bit identifier used by the container
// package's lookup index, for callers that want to key their own data
// structures the same way.
func ChannelID(name string) uint64 { return namehash.ID(name) }

// NewContainer creates an empty reference container.
func NewContainer() *container.Set { return container.NewSet() }

// NewWriter creates a Writer over dst, which must support Seek.
func NewWriter(dst io.WriteSeeker, opts ...mdfwriter.WriterOption) *mdfwriter.Writer {
	return mdfwriter.New(dst, opts...)
}

func engineFor(bigEndian bool) endian.EndianEngine {
	if bigEndian {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// ReadSortedGroup decodes a sorted data group's single channel group from
// src into a container.Set, running the full component pipeline (B, C, D,
// F, G). conversions supplies each channel's ConversionSpec by name (the
// metadata parser producing these is out of scope, per §6); a channel
// absent from conversions decodes as identity/passthrough. channelSet
// restricts which non-master channels are decoded (nil or empty means all).
// readerOpts is forwarded to record.NewSortedReader (e.g. record.WithParallelDecode).
func ReadSortedGroup(src io.Reader, fileBigEndian bool, dataGroup int, info blocks.ChannelGroupInfo, conversions map[string]descriptor.ConversionSpec, channelSet map[string]bool, readerOpts ...record.ReaderOption) (*container.Set, error) {
	descs, masterName, err := buildDescriptors(info.Channels, conversions, fileBigEndian, 0)
	if err != nil {
		return nil, err
	}
	if masterName == "" {
		return nil, errs.ErrNoMasterChannel
	}

	sc, err := schema.Build(descs, schema.Params{
		RecordID:        int(info.CG.RecordID),
		HasRecordID:     false,
		RecordIDWidth:   0,
		CGRecordLength:  int(info.CG.DataRecordSize),
		NumberOfRecords: int(info.CG.NumRecords),
	})
	if err != nil {
		return nil, err
	}

	engine := engineFor(fileBigEndian)
	slotCols, err := record.NewSortedReader(sc, engine, readerOpts...).Read(src, channelSet)
	if err != nil {
		return nil, err
	}

	finalCols, _ := record.Finalize(sc, slotCols)

	set := container.NewSet()
	populateSet(set, dataGroup, descs, masterName, finalCols)

	return set, nil
}

// ReadUnsortedGroup decodes every channel group of an unsorted data group
// (record-ID multiplexed) from src into a single container.Set, one master
// per channel group.
func ReadUnsortedGroup(src io.Reader, blockLength int, fileBigEndian bool, dataGroup int, groups []blocks.ChannelGroupInfo, conversions map[string]descriptor.ConversionSpec) (*container.Set, error) {
	schemas := make(map[int]*schema.RecordSchema, len(groups))
	allDescs := make(map[int][]descriptor.ChannelDescriptor, len(groups))
	masterNames := make(map[int]string, len(groups))
	recordIDWidth := recordIDWidthFor(groups)

	for _, g := range groups {
		descs, masterName, err := buildDescriptors(g.Channels, conversions, fileBigEndian, recordIDWidth)
		if err != nil {
			return nil, err
		}
		if masterName == "" {
			return nil, errs.ErrNoMasterChannel
		}

		sc, err := schema.Build(descs, schema.Params{
			RecordID:        int(g.CG.RecordID),
			HasRecordID:     true,
			RecordIDWidth:   recordIDWidth,
			CGRecordLength:  int(g.CG.DataRecordSize),
			NumberOfRecords: int(g.CG.NumRecords),
		})
		if err != nil {
			return nil, err
		}

		recordID := int(g.CG.RecordID)
		schemas[recordID] = sc
		allDescs[recordID] = descs
		masterNames[recordID] = masterName
	}

	engine := engineFor(fileBigEndian)
	perRecord, err := record.NewUnsortedReader(schemas, engine).Read(src, blockLength)
	if err != nil {
		return nil, err
	}

	set := container.NewSet()
	for recordID, slotCols := range perRecord {
		sc := schemas[recordID]
		finalCols, _ := record.Finalize(sc, slotCols)
		populateSet(set, dataGroup, allDescs[recordID], masterNames[recordID], finalCols)
	}

	return set, nil
}

func recordIDWidthFor(groups []blocks.ChannelGroupInfo) int {
	if len(groups) >= 2 {
		return 1
	}

	return 0
}

func buildDescriptors(channels []blocks.ChannelInfo, conversions map[string]descriptor.ConversionSpec, fileBigEndian bool, recordIDWidth int) ([]descriptor.ChannelDescriptor, string, error) {
	descs := make([]descriptor.ChannelDescriptor, 0, len(channels))
	masterName := ""

	for _, chInfo := range channels {
		name := chInfo.CN.NameString()

		conv, ok := conversions[name]
		if !ok {
			conv = descriptor.Identity()
		}

		d, err := descriptor.Build(chInfo.CN, conv, fileBigEndian, recordIDWidth)
		if err != nil {
			return nil, "", err
		}

		descs = append(descs, d)
		if d.IsMaster() && masterName == "" {
			masterName = d.Name
		}
	}

	return descs, masterName, nil
}

func populateSet(set *container.Set, dataGroup int, descs []descriptor.ChannelDescriptor, masterName string, finalCols map[string]*record.Column) {
	for i := range descs {
		d := &descs[i]

		col, ok := finalCols[d.Name]
		if !ok {
			continue
		}

		phys, err := convert.Apply(col, d.Conversion)
		if err != nil {
			phys = rawAsPhysical(col)
		}
		col.Release()

		c := container.Column{Float: phys.Float, Text: phys.Text}
		_ = set.AddChannel(dataGroup, d.Name, c, masterName, int(blocks.ChannelTypeMaster), d.Unit, d.Description, d.Conversion)
	}
}

// rawAsPhysical is the conversion-failure fallback: keep the raw column,
// widened to float64, per the InvalidConversion/FeatureUnavailable policy
// of leaving the raw value in place instead of aborting the data group.
func rawAsPhysical(col *record.Column) convert.PhysicalColumn {
	n := col.Len()
	out := convert.PhysicalColumn{Float: make([]float64, n), RawPreserved: true}
	for i := 0; i < n; i++ {
		out.Float[i] = col.NumericAt(i)
	}

	return out
}

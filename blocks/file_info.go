package blocks

// FileInfo is the description tree handed to the descriptor and schema
// packages: the parsed block graph, already walked and assembled by the
// metadata parser (out of scope here; this package only parses one block's
// bytes at a time). It mirrors the "input from the metadata parser"
// interface described for component B.
type FileInfo struct {
	ID   IDBlock
	HD   HDBlock
	DGs  []DataGroupInfo
}

// DataGroupInfo is one data group: its DGBlock plus the channel groups it
// contains, in file order.
type DataGroupInfo struct {
	DG   DGBlock
	CGs  []ChannelGroupInfo
}

// ChannelGroupInfo is one channel group: its CGBlock plus the channels that
// make up its record layout, in link order (the order channels are laid out
// in the record, not necessarily byte-offset order).
type ChannelGroupInfo struct {
	CG       CGBlock
	Channels []ChannelInfo
}

// ChannelInfo is one channel: its CNBlock plus the CCBlock describing its
// raw-to-physical conversion, if any link was present.
type ChannelInfo struct {
	CN CNBlock
	CC *CCBlock
}

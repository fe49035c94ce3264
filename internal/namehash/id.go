// Package namehash computes stable 64-bit identifiers for channel names.
//
// MDF channels are addressed by name in the block graph. The reference
// container indexes channels by this fixed-size xxHash64 key for O(1)
// lookup, and the mdf package exposes it as ChannelID. The record schema
// does not use it: its record-to-slot map is keyed by plain channel name.
package namehash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given channel name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

package block

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Interlink is the per-block list of superblock back-references, ordered by
// ascending level. Entry i is the hash of the most recent block whose own
// hash qualified for level i.
type Interlink []Hash

// Hash commits to the interlink: blake2b over the length-prefixed
// concatenation of all entries.
func (il Interlink) Hash() Hash {
	buf := make([]byte, 0, 2+len(il)*HashSize)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(il)))
	for _, h := range il {
		buf = append(buf, h[:]...)
	}
	return Hash(blake2b.Sum256(buf))
}

func (il Interlink) Equal(other Interlink) bool {
	if len(il) != len(other) {
		return false
	}
	for i := range il {
		if il[i] != other[i] {
			return false
		}
	}
	return true
}

// Contains reports whether h appears at any level.
func (il Interlink) Contains(h Hash) bool {
	for _, entry := range il {
		if entry == h {
			return true
		}
	}
	return false
}

func (il Interlink) clone() Interlink {
	out := make(Interlink, len(il))
	copy(out, il)
	return out
}

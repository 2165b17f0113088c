package block

import "sync"

// Genesis header constants. The genesis block is defined, not mined, so it
// is exempt from the proof-of-work check like every hardcoded genesis.
const (
	genesisVersion   uint16 = 1
	genesisTimestamp uint64 = 1735689600 // 2025-01-01 00:00:00 UTC
	genesisNonce     uint64 = 104729
)

var (
	genesisOnce  sync.Once
	genesisBlock *Block
)

// Genesis returns the canonical genesis block. The returned pointer is
// shared; callers must not mutate it.
func Genesis() *Block {
	genesisOnce.Do(func() {
		interlink := Interlink{}
		genesisBlock = &Block{
			Header: BlockHeader{
				Version:       genesisVersion,
				InterlinkHash: interlink.Hash(),
				NBits:         PowLimitBits,
				Height:        0,
				Timestamp:     genesisTimestamp,
				Nonce:         genesisNonce,
			},
			Interlink: interlink,
		}
	})
	return genesisBlock
}

// GenesisHash is a convenience for the genesis block hash.
func GenesisHash() Hash {
	return Genesis().Hash()
}

package chainstore

import (
	"nipow/block"
)

// Entry pairs a hash with its chain data for batch writes.
type Entry struct {
	Hash block.Hash
	Data *ChainData
}

// ChainStore abstracts the hash -> ChainData mapping the consensus engine
// runs against. Implementations must serve concurrent readers; writes are
// serialized by the engine.
type ChainStore interface {
	// Get returns the stored entry or (nil, nil) when absent.
	Get(hash block.Hash) (*ChainData, error)

	// GetBlock is a convenience for Get(hash).Head.
	GetBlock(hash block.Hash) (*block.Block, error)

	// Put inserts or overwrites one entry.
	Put(hash block.Hash, data *ChainData) error

	// PutBatch applies all entries as one write. Backends with native
	// transactions commit atomically.
	PutBatch(entries []Entry) error

	// Truncate removes every entry.
	Truncate() error

	// Close releases backend resources.
	Close() error
}

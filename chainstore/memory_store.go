package chainstore

import (
	"sync"

	"nipow/block"
)

// MemoryStore is the default backend: a map rebuilt each session, which is
// all a proof-bootstrapped light client needs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[block.Hash]*ChainData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[block.Hash]*ChainData),
	}
}

func (ms *MemoryStore) Get(hash block.Hash) (*ChainData, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	data, ok := ms.entries[hash]
	if !ok {
		return nil, nil
	}
	return data.clone(), nil
}

func (ms *MemoryStore) GetBlock(hash block.Hash) (*block.Block, error) {
	data, err := ms.Get(hash)
	if err != nil || data == nil {
		return nil, err
	}
	return data.Head, nil
}

func (ms *MemoryStore) Put(hash block.Hash, data *ChainData) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries[hash] = data.clone()
	return nil
}

func (ms *MemoryStore) PutBatch(entries []Entry) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, e := range entries {
		ms.entries[e.Hash] = e.Data.clone()
	}
	return nil
}

func (ms *MemoryStore) Truncate() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries = make(map[block.Hash]*ChainData)
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

// Len reports the number of stored entries. Test helper.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.entries)
}

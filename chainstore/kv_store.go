package chainstore

import (
	"fmt"

	"nipow/block"
)

// KVStore adapts a DatabaseProvider into a ChainStore. Keys are the raw
// block hashes, values json-encoded chain data records.
type KVStore struct {
	provider DatabaseProvider
}

func NewKVStore(provider DatabaseProvider) *KVStore {
	return &KVStore{provider: provider}
}

func (s *KVStore) Get(hash block.Hash) (*ChainData, error) {
	raw, err := s.provider.Get(hash[:])
	if err != nil {
		return nil, fmt.Errorf("chain store get %s: %w", hash.Short(), err)
	}
	if raw == nil {
		return nil, nil
	}
	return decodeChainData(raw)
}

func (s *KVStore) GetBlock(hash block.Hash) (*block.Block, error) {
	data, err := s.Get(hash)
	if err != nil || data == nil {
		return nil, err
	}
	return data.Head, nil
}

func (s *KVStore) Put(hash block.Hash, data *ChainData) error {
	raw, err := encodeChainData(data)
	if err != nil {
		return err
	}
	if err := s.provider.Put(hash[:], raw); err != nil {
		return fmt.Errorf("chain store put %s: %w", hash.Short(), err)
	}
	return nil
}

func (s *KVStore) PutBatch(entries []Entry) error {
	batch := s.provider.Batch()
	defer batch.Close()

	for _, e := range entries {
		raw, err := encodeChainData(e.Data)
		if err != nil {
			return err
		}
		batch.Put(e.Hash[:], raw)
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("chain store batch write: %w", err)
	}
	return nil
}

func (s *KVStore) Truncate() error {
	return s.provider.Drop()
}

func (s *KVStore) Close() error {
	return s.provider.Close()
}

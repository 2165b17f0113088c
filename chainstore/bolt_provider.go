package chainstore

import (
	"fmt"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var chainBucket = []byte("chaindata")

// BoltProvider implements DatabaseProvider on bbolt. Its batches commit
// inside a single Update transaction, which is what makes rebranch flag
// flips atomic on this backend.
type BoltProvider struct {
	db *bbolt.DB
}

func NewBoltProvider(directory string) (DatabaseProvider, error) {
	db, err := bbolt.Open(filepath.Join(directory, "chain.db"), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(chainBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create chain bucket: %w", err)
	}

	return &BoltProvider{db: db}, nil
}

func (p *BoltProvider) Get(key []byte) ([]byte, error) {
	var value []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		if raw := tx.Bucket(chainBucket).Get(key); raw != nil {
			value = make([]byte, len(raw))
			copy(value, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *BoltProvider) Put(key, value []byte) error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(chainBucket).Put(key, value)
	})
}

func (p *BoltProvider) Delete(key []byte) error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(chainBucket).Delete(key)
	})
}

func (p *BoltProvider) Has(key []byte) (bool, error) {
	var found bool
	err := p.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(chainBucket).Get(key) != nil
		return nil
	})
	return found, err
}

func (p *BoltProvider) Drop() error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(chainBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(chainBucket)
		return err
	})
}

func (p *BoltProvider) Close() error {
	return p.db.Close()
}

func (p *BoltProvider) Batch() DatabaseBatch {
	return &boltBatch{db: p.db}
}

type boltBatch struct {
	db      *bbolt.DB
	pending []struct{ key, value []byte }
}

func (b *boltBatch) Put(key, value []byte) {
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)
	b.pending = append(b.pending, struct{ key, value []byte }{k, v})
}

// Write commits all pending puts in one transaction.
func (b *boltBatch) Write() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(chainBucket)
		for _, kv := range b.pending {
			if err := bucket.Put(kv.key, kv.value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltBatch) Reset() {
	b.pending = nil
}

func (b *boltBatch) Close() error {
	b.pending = nil
	return nil
}

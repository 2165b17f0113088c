package chainstore

import (
	"fmt"
)

// StoreType represents the type of chain store implementation
type StoreType string

const (
	// MemoryStoreType keeps the chain in process memory (default)
	MemoryStoreType StoreType = "memory"
	// LevelDBStoreType uses the LevelDB implementation
	LevelDBStoreType StoreType = "leveldb"
	// BoltStoreType uses the bbolt implementation
	BoltStoreType StoreType = "bolt"
)

// StoreConfig holds configuration for creating chain store instances
type StoreConfig struct {
	// Type specifies which store implementation to use
	Type StoreType `json:"type" yaml:"type"`

	// Directory is the database directory path (for file-based databases)
	Directory string `json:"directory" yaml:"directory"`
}

// Validate validates the store configuration
func (sc *StoreConfig) Validate() error {
	switch sc.Type {
	case MemoryStoreType:
		return nil
	case LevelDBStoreType, BoltStoreType:
		if sc.Directory == "" {
			return fmt.Errorf("directory cannot be empty for %s store", sc.Type)
		}
		return nil
	case "":
		return fmt.Errorf("store type cannot be empty")
	default:
		return fmt.Errorf("unsupported store type: %s", sc.Type)
	}
}

// Open creates a chain store instance for the configuration.
func Open(config *StoreConfig) (ChainStore, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch config.Type {
	case MemoryStoreType:
		return NewMemoryStore(), nil

	case LevelDBStoreType:
		provider, err := NewLevelDBProvider(config.Directory)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
		return NewKVStore(provider), nil

	case BoltStoreType:
		provider, err := NewBoltProvider(config.Directory)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
		return NewKVStore(provider), nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// NewMemoryConfig creates the default in-memory store configuration
func NewMemoryConfig() *StoreConfig {
	return &StoreConfig{Type: MemoryStoreType}
}

// NewLevelDBConfig creates a LevelDB store configuration
func NewLevelDBConfig(directory string) *StoreConfig {
	return &StoreConfig{Type: LevelDBStoreType, Directory: directory}
}

// NewBoltConfig creates a bbolt store configuration
func NewBoltConfig(directory string) *StoreConfig {
	return &StoreConfig{Type: BoltStoreType, Directory: directory}
}

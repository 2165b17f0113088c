package config

import "nipow/chainstore"

// NodeConfig represents the node's own settings
type NodeConfig struct {
	Name        string `yaml:"name"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// AppConfig holds the configuration from genesis.yml
type AppConfig struct {
	Node  NodeConfig             `yaml:"node"`
	Store chainstore.StoreConfig `yaml:"store"`
}

// ConfigFile wraps the top-level yaml document
type ConfigFile struct {
	Config AppConfig `yaml:"config"`
}

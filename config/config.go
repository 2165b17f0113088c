package config

import (
	"os"
	"time"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"nipow/logx"
)

// ConsensusParams are the protocol constants consumed by the chain engine.
type ConsensusParams struct {
	K              int
	M              int
	RetargetWindow int
	BlockTime      time.Duration
}

// DefaultConsensusParams returns the protocol defaults.
func DefaultConsensusParams() ConsensusParams {
	return ConsensusParams{
		K:              DefaultK,
		M:              DefaultM,
		RetargetWindow: DefaultRetargetWindow,
		BlockTime:      DefaultBlockTime,
	}
}

// LoadAppConfig reads and parses the genesis.yml file
func LoadAppConfig(path string) (*AppConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		logx.Error("CONFIG", "Failed to open config file: ", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "Failed to decode YAML: ", err)
		return nil, err
	}
	logx.Info("CONFIG", "Loaded app config | node=", cfgFile.Config.Node.Name, " store=", string(cfgFile.Config.Store.Type))
	return &cfgFile.Config, nil
}

type consensusSection struct {
	K              int `ini:"k"`
	M              int `ini:"m"`
	RetargetWindow int `ini:"retarget_window"`
	BlockTimeSecs  int `ini:"block_time_secs"`
}

// LoadConsensusParams reads the [consensus] section from an .ini file.
// Missing keys fall back to the protocol defaults.
func LoadConsensusParams(path string) (ConsensusParams, error) {
	params := DefaultConsensusParams()

	cfg, err := ini.Load(path)
	if err != nil {
		return params, err
	}

	section := consensusSection{
		K:              DefaultK,
		M:              DefaultM,
		RetargetWindow: DefaultRetargetWindow,
		BlockTimeSecs:  int(DefaultBlockTime / time.Second),
	}
	if err := cfg.Section("consensus").MapTo(&section); err != nil {
		return params, err
	}

	params.K = section.K
	params.M = section.M
	params.RetargetWindow = section.RetargetWindow
	params.BlockTime = time.Duration(section.BlockTimeSecs) * time.Second
	return params, nil
}

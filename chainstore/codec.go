package chainstore

import (
	"encoding/json"
	"fmt"

	"nipow/block"
)

// Stored values are json, hashes in hex. Matches the node's other
// key-value payloads and keeps the store greppable with plain tools.
type chainDataRecord struct {
	Head            *block.Block `json:"head"`
	TotalDifficulty int64        `json:"totalDifficulty"`
	TotalWork       int64        `json:"totalWork"`
	OnMainChain     bool         `json:"onMainChain"`
}

func encodeChainData(data *ChainData) ([]byte, error) {
	rec := chainDataRecord{
		Head:            data.Head,
		TotalDifficulty: data.TotalDifficulty,
		TotalWork:       data.TotalWork,
		OnMainChain:     data.OnMainChain,
	}
	return json.Marshal(rec)
}

func decodeChainData(raw []byte) (*ChainData, error) {
	var rec chainDataRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("corrupt chain data record: %w", err)
	}
	return &ChainData{
		Head:            rec.Head,
		TotalDifficulty: rec.TotalDifficulty,
		TotalWork:       rec.TotalWork,
		OnMainChain:     rec.OnMainChain,
	}, nil
}

package chainstore

import (
	"nipow/block"
)

// RetrievalOnly is the sentinel marking an entry that can be looked up but
// never extended: prefix blocks below the adopted proof head.
const RetrievalOnly int64 = -1

// ChainData is the per-stored-block metadata tracked by the engine.
type ChainData struct {
	Head            *block.Block
	TotalDifficulty int64
	TotalWork       int64
	OnMainChain     bool
}

// NewChainData builds an extendable entry.
func NewChainData(head *block.Block, totalDifficulty, totalWork int64, onMainChain bool) *ChainData {
	return &ChainData{
		Head:            head,
		TotalDifficulty: totalDifficulty,
		TotalWork:       totalWork,
		OnMainChain:     onMainChain,
	}
}

// NewRetrievalOnly builds a lookup-only entry for a proof prefix block.
func NewRetrievalOnly(head *block.Block) *ChainData {
	return &ChainData{
		Head:            head,
		TotalDifficulty: RetrievalOnly,
		TotalWork:       RetrievalOnly,
		OnMainChain:     true,
	}
}

// Extendable reports whether a successor may reference this entry.
func (cd *ChainData) Extendable() bool {
	return cd.TotalDifficulty > 0
}

func (cd *ChainData) clone() *ChainData {
	out := *cd
	return &out
}

package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nipow/block"
	"nipow/chainstore"
	"nipow/config"
	"nipow/events"
	"nipow/proof"
)

// testParams keeps the suffix short and the retarget window out of reach
// so scenario chains stay small.
func testParams() config.ConsensusParams {
	params := config.DefaultConsensusParams()
	params.K = 5
	params.M = 2
	return params
}

func newTestEngine(t *testing.T) (*Engine, *chainstore.MemoryStore, chan events.ChainEvent) {
	t.Helper()

	store := chainstore.NewMemoryStore()
	bus := events.NewEventBus()
	engine, err := NewEngine(store, bus, testParams())
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	_, headCh := bus.Subscribe()
	return engine, store, headCh
}

// mineChild produces a valid successor of prev. The timestamp doubles as a
// salt so sibling forks mine to distinct hashes.
func mineChild(t *testing.T, prev *block.Block, nBits uint32, timestamp uint64) *block.Block {
	t.Helper()

	target, ok := block.CompactToTarget(nBits)
	require.True(t, ok)

	interlink := prev.GetNextInterlink(target)
	header := block.BlockHeader{
		Version:       1,
		PrevHash:      prev.Hash(),
		InterlinkHash: interlink.Hash(),
		NBits:         nBits,
		Height:        prev.Height() + 1,
		Timestamp:     timestamp,
	}
	for !header.VerifyProofOfWork() {
		header.Nonce++
	}
	return block.NewBlock(header, interlink)
}

// buildChain mines length difficulty-1 blocks on genesis, genesis included
// in the result.
func buildChain(t *testing.T, length int) []*block.Block {
	t.Helper()

	blocks := []*block.Block{block.Genesis()}
	for i := 0; i < length; i++ {
		prev := blocks[len(blocks)-1]
		blocks = append(blocks, mineChild(t, prev, block.PowLimitBits, prev.Header.Timestamp+60))
	}
	return blocks
}

// proofOf assembles a chain proof over blocks: the last suffixLen blocks
// as the dense suffix, everything below as the prefix.
func proofOf(blocks []*block.Block, suffixLen int) *proof.ChainProof {
	split := len(blocks) - suffixLen
	prefix := make([]*block.Block, 0, split)
	for _, b := range blocks[:split] {
		prefix = append(prefix, b.ToLight())
	}
	headers := make([]*block.BlockHeader, 0, suffixLen)
	for _, b := range blocks[split:] {
		h := b.Header
		headers = append(headers, &h)
	}
	return proof.NewChainProof(proof.NewBlockChain(prefix), proof.NewHeaderChain(headers))
}

// walkMainChain follows prevHash from the head through the store and
// returns the visited entries, head first. It stops at the first entry
// that is not extendable (genesis has no predecessor in the store).
func walkMainChain(t *testing.T, e *Engine) []*chainstore.ChainData {
	t.Helper()

	var visited []*chainstore.ChainData
	hash := e.HeadHash()
	for {
		data, err := e.store.Get(hash)
		require.NoError(t, err)
		require.NotNil(t, data, "main chain broken at %s", hash.Short())
		visited = append(visited, data)
		if !data.Extendable() || data.Head.Height() == 0 {
			return visited
		}
		next, err := e.store.Get(data.Head.PrevHash())
		require.NoError(t, err)
		if next == nil {
			return visited
		}
		hash = data.Head.PrevHash()
	}
}

package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nipow/block"
)

// buildChain mines length blocks on top of genesis and returns the whole
// chain, genesis included.
func buildChain(t *testing.T, length int) []*block.Block {
	t.Helper()

	blocks := []*block.Block{block.Genesis()}
	for i := 0; i < length; i++ {
		prev := blocks[len(blocks)-1]
		target, ok := block.CompactToTarget(block.PowLimitBits)
		require.True(t, ok)

		interlink := prev.GetNextInterlink(target)
		header := block.BlockHeader{
			Version:       1,
			PrevHash:      prev.Hash(),
			InterlinkHash: interlink.Hash(),
			NBits:         block.PowLimitBits,
			Height:        prev.Height() + 1,
			Timestamp:     prev.Header.Timestamp + 60,
		}
		for !header.VerifyProofOfWork() {
			header.Nonce++
		}
		blocks = append(blocks, block.NewBlock(header, interlink))
	}
	return blocks
}

func headersOf(blocks []*block.Block) []*block.BlockHeader {
	headers := make([]*block.BlockHeader, len(blocks))
	for i, b := range blocks {
		h := b.Header
		headers[i] = &h
	}
	return headers
}

func TestBlockChainHeadTail(t *testing.T) {
	empty := NewBlockChain(nil)
	assert.Nil(t, empty.Head())
	assert.Nil(t, empty.Tail())

	blocks := buildChain(t, 3)
	bc := NewBlockChain(blocks)
	assert.Equal(t, blocks[3], bc.Head())
	assert.Equal(t, blocks[0], bc.Tail())
	assert.Equal(t, 4, bc.Len())
}

func TestLowestCommonAncestor(t *testing.T) {
	blocks := buildChain(t, 6)

	full := NewBlockChain(blocks)
	short := NewBlockChain(blocks[:4])
	assert.Equal(t, blocks[3].Hash(), LowestCommonAncestor(full, short).Hash())
	assert.Equal(t, blocks[3].Hash(), LowestCommonAncestor(short, full).Hash())

	sparse := NewBlockChain([]*block.Block{blocks[0], blocks[2], blocks[5]})
	assert.Equal(t, blocks[5].Hash(), LowestCommonAncestor(full, sparse).Hash())

	assert.Nil(t, LowestCommonAncestor(full, NewBlockChain(nil)))
	assert.Nil(t, LowestCommonAncestor(nil, full))
}

func TestHeaderChainTotalDifficulty(t *testing.T) {
	blocks := buildChain(t, 5)
	hc := NewHeaderChain(headersOf(blocks[1:]))

	// All blocks mined at the pow limit are difficulty 1.
	assert.Equal(t, int64(5), hc.TotalDifficulty())
	assert.Equal(t, int64(0), NewHeaderChain(nil).TotalDifficulty())
}

func TestChainProofHead(t *testing.T) {
	blocks := buildChain(t, 8)

	p := NewChainProof(
		NewBlockChain(blocks[:4]),
		NewHeaderChain(headersOf(blocks[4:])),
	)
	assert.Equal(t, blocks[8].Hash(), p.Head().Hash())
	assert.Equal(t, uint64(8), p.HeadHeight())

	suffixless := NewChainProof(NewBlockChain(blocks[:4]), NewHeaderChain(nil))
	assert.Equal(t, blocks[3].Hash(), suffixless.Head().Hash())
}

func TestChainProofVerify(t *testing.T) {
	blocks := buildChain(t, 8)

	p := NewChainProof(
		NewBlockChain(blocks[:4]),
		NewHeaderChain(headersOf(blocks[4:])),
	)
	require.NoError(t, p.Verify())
}

func TestChainProofVerifyRejectsEmptyPrefix(t *testing.T) {
	p := NewChainProof(NewBlockChain(nil), NewHeaderChain(nil))
	assert.ErrorIs(t, p.Verify(), errEmptyPrefix)
}

func TestChainProofVerifyRejectsUnorderedPrefix(t *testing.T) {
	blocks := buildChain(t, 4)
	p := NewChainProof(
		NewBlockChain([]*block.Block{blocks[2], blocks[1]}),
		NewHeaderChain(nil),
	)
	assert.ErrorIs(t, p.Verify(), errPrefixOrder)
}

func TestChainProofVerifyRejectsBrokenInterlinkCommitment(t *testing.T) {
	blocks := buildChain(t, 4)

	tampered := *blocks[2]
	tampered.Header.InterlinkHash = block.Hash{0xde, 0xad}
	p := NewChainProof(
		NewBlockChain([]*block.Block{blocks[0], blocks[1], &tampered}),
		NewHeaderChain(nil),
	)
	assert.Error(t, p.Verify())
}

func TestChainProofVerifyRejectsUnlinkedPrefix(t *testing.T) {
	main := buildChain(t, 3)

	// A block from a disjoint branch: same height, different parent.
	fork := buildChain(t, 1)
	prev := fork[0]
	target, _ := block.CompactToTarget(block.PowLimitBits)
	interlink := prev.GetNextInterlink(target)
	header := block.BlockHeader{
		Version:       1,
		PrevHash:      prev.Hash(),
		InterlinkHash: interlink.Hash(),
		NBits:         block.PowLimitBits,
		Height:        prev.Height() + 1,
		Timestamp:     prev.Header.Timestamp + 3600,
	}
	for !header.VerifyProofOfWork() {
		header.Nonce++
	}
	stranger := block.NewBlock(header, interlink)

	p := NewChainProof(
		NewBlockChain([]*block.Block{main[0], main[1], main[2], mustAtHeight(t, stranger, 3)}),
		NewHeaderChain(nil),
	)
	assert.Error(t, p.Verify())
}

// mustAtHeight re-mines b at the given height so prefix ordering holds
// while the superchain linkage stays broken.
func mustAtHeight(t *testing.T, b *block.Block, height uint64) *block.Block {
	t.Helper()
	header := b.Header
	header.Height = height
	for !header.VerifyProofOfWork() {
		header.Nonce++
	}
	return block.NewBlock(header, b.Interlink)
}

func TestChainProofVerifyRejectsSuffixGap(t *testing.T) {
	blocks := buildChain(t, 8)

	p := NewChainProof(
		NewBlockChain(blocks[:4]),
		NewHeaderChain(headersOf(blocks[5:])), // skips height 4
	)
	assert.ErrorIs(t, p.Verify(), errSuffixOrder)
}

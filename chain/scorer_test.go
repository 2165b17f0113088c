package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEmptyChain(t *testing.T) {
	assert.Equal(t, int64(0), Score(nil, nil, 2))
}

func TestScoreNothingAboveAncestor(t *testing.T) {
	blocks := buildChain(t, 5)

	// An ancestor above every block leaves an empty comparison window.
	lca := blocks[5]
	assert.Equal(t, int64(0), Score(blocks[:5], lca, 2))
}

func TestScoreCountsBlocksAboveAncestor(t *testing.T) {
	blocks := buildChain(t, 8)

	full := Score(blocks, nil, 2)
	assert.GreaterOrEqual(t, full, int64(len(blocks)))

	// Raising the ancestor can only shrink the window.
	partial := Score(blocks, blocks[4], 2)
	assert.LessOrEqual(t, partial, full)
	assert.Greater(t, partial, int64(0))
}

func TestScoreThresholdCapsLevel(t *testing.T) {
	blocks := buildChain(t, 8)

	// With m above the block count no level can accumulate enough
	// superblocks, so the score degrades to a plain count at level 0.
	score := Score(blocks, nil, len(blocks)+1)
	assert.Equal(t, int64(len(blocks)), score)
}

func TestScoreMonotoneInPrefixBlocks(t *testing.T) {
	blocks := buildChain(t, 24)

	for _, m := range []int{1, 2, 5, 20} {
		last := int64(0)
		for i := 1; i <= len(blocks); i++ {
			score := Score(blocks[:i], nil, m)
			assert.GreaterOrEqual(t, score, last, "m=%d i=%d", m, i)
			last = score
		}
	}
}

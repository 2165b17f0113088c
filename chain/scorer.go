package chain

import (
	"nipow/block"
)

// Score computes the superblock-level score of a proof prefix relative to
// an ancestor. Superblocks at higher depths are exponentially rarer, so a
// chain with many high-depth blocks above the ancestor outscores a longer
// chain of ordinary blocks. The m threshold keeps a single lucky block
// from inflating the level.
func Score(blocks []*block.Block, lca *block.Block, m int) int64 {
	var lcaHeight uint64
	if lca != nil {
		lcaHeight = lca.Height()
	}

	counts := make(map[int]int)
	maxDepth := -1
	for _, b := range blocks {
		if b.Height() < lcaHeight {
			continue
		}
		depth := block.TargetDepth(block.HashToTarget(b.Hash()))
		counts[depth]++
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	// Walk from the deepest observed level down, accumulating counts.
	// The score level is the highest depth whose cumulative count
	// reaches m; a chain that never reaches m scores at depth 0.
	sum := 0
	depth := 0
	for d := maxDepth; d >= 0; d-- {
		sum += counts[d]
		if sum >= m {
			depth = d
			break
		}
	}
	if depth > 62 {
		// Beyond this the shifted score no longer fits an int64; such
		// depths cannot occur for honest targets anyway.
		depth = 62
	}

	return int64(sum) << uint(depth)
}

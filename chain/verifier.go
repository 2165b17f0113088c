package chain

import (
	"fmt"

	"nipow/block"
	"nipow/logx"
	"nipow/proof"
)

// verifyProof validates a candidate chain proof and, on success, returns
// the suffix reconstructed as full light blocks with their interlinks.
func (e *Engine) verifyProof(p *proof.ChainProof) ([]*block.Block, bool) {
	if err := p.Verify(); err != nil {
		logx.Warn("CHAIN", "Rejecting chain proof: ", err)
		return nil, false
	}

	// The dense suffix must hold K headers, or exactly one less than the
	// claimed head height when the chain itself is still shorter than K.
	suffixLen := p.Suffix.Len()
	headHeight := p.HeadHeight()
	if suffixLen != e.params.K && uint64(suffixLen) != headHeight-1 {
		logx.Warn("CHAIN", fmt.Sprintf("Rejecting chain proof: suffix length %d for head height %d", suffixLen, headHeight))
		return nil, false
	}

	// Replay the suffix on top of the prefix head, recomputing every
	// interlink. A header that does not commit to the recomputed
	// interlink, fails PoW or breaks succession invalidates the proof.
	var suffixHeaders []*block.BlockHeader
	if p.Suffix != nil {
		suffixHeaders = p.Suffix.Headers
	}
	head := p.Prefix.Head()
	suffixBlocks := make([]*block.Block, 0, suffixLen)
	for i, h := range suffixHeaders {
		target, ok := h.Target()
		if !ok {
			logx.Warn("CHAIN", fmt.Sprintf("Rejecting chain proof: suffix header %d has malformed nBits", i))
			return nil, false
		}
		if !h.VerifyProofOfWork() {
			logx.Warn("CHAIN", fmt.Sprintf("Rejecting chain proof: suffix header %d fails proof of work", i))
			return nil, false
		}
		if !h.IsImmediateSuccessorOf(&head.Header) {
			logx.Warn("CHAIN", fmt.Sprintf("Rejecting chain proof: suffix header %d breaks succession", i))
			return nil, false
		}
		interlink := head.GetNextInterlink(target)
		if interlink.Hash() != h.InterlinkHash {
			logx.Warn("CHAIN", fmt.Sprintf("Rejecting chain proof: suffix header %d interlink mismatch", i))
			return nil, false
		}

		next := block.NewBlock(*h, interlink)
		suffixBlocks = append(suffixBlocks, next)
		head = next
	}

	return suffixBlocks, true
}

// isBetterProof decides whether p1 beats p2: higher superblock score above
// the common ancestor wins; equal scores fall back to the dense suffix
// with more cumulative work. Ties count for p1, so replacing a proof with
// its equal is allowed.
func isBetterProof(p1, p2 *proof.ChainProof, m int) bool {
	lca := proof.LowestCommonAncestor(p1.Prefix, p2.Prefix)

	s1 := Score(p1.Prefix.Blocks, lca, m)
	s2 := Score(p2.Prefix.Blocks, lca, m)
	if s1 != s2 {
		return s1 > s2
	}

	return p1.Suffix.TotalDifficulty() >= p2.Suffix.TotalDifficulty()
}

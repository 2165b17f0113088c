package chain

import (
	"fmt"

	"nipow/block"
	"nipow/chainstore"
	"nipow/logx"
)

// validateHeader checks an incoming header against its stored predecessor.
// On success the returned block carries the recomputed interlink; on
// failure the block is nil and the result code tells why.
func (e *Engine) validateHeader(header *block.BlockHeader, prevData *chainstore.ChainData) (*block.Block, Result) {
	if !header.VerifyProofOfWork() {
		logx.Warn("CHAIN", "Rejecting header ", header.Hash().Short(), ": proof of work check failed")
		return nil, ErrInvalid
	}

	prevHeader := &prevData.Head.Header
	if !header.IsImmediateSuccessorOf(prevHeader) {
		logx.Warn("CHAIN", "Rejecting header ", header.Hash().Short(), ": not an immediate successor of ", prevData.Head.Hash().Short())
		return nil, ErrInvalid
	}

	// Difficulty: once the retarget window is complete the header must
	// carry exactly the computed target. Before that the chain is too
	// short to retarget and the check is skipped.
	if nextTarget, ok := e.nextTarget(prevData); ok && block.IsValidTarget(nextTarget) {
		expected := block.TargetToCompact(nextTarget)
		if header.NBits != expected {
			logx.Warn("CHAIN", fmt.Sprintf("Rejecting header %s: nBits %08x, expected %08x", header.Hash().Short(), header.NBits, expected))
			return nil, ErrInvalid
		}
	} else {
		logx.Debug("CHAIN", "Retarget window incomplete at height ", header.Height, ", skipping difficulty check")
	}

	target, _ := header.Target()
	interlink := prevData.Head.GetNextInterlink(target)
	if interlink.Hash() != header.InterlinkHash {
		logx.Warn("CHAIN", "Rejecting header ", header.Hash().Short(), ": interlink hash mismatch")
		return nil, ErrInvalid
	}

	return block.NewBlock(*header, interlink), OkExtended
}

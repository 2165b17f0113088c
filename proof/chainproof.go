package proof

import (
	"errors"
	"fmt"

	"nipow/block"
)

// BlockChain is the sparse superblock prefix of a chain proof: light
// blocks ordered by strictly increasing height.
type BlockChain struct {
	Blocks []*block.Block `json:"blocks"`
}

func NewBlockChain(blocks []*block.Block) *BlockChain {
	return &BlockChain{Blocks: blocks}
}

func (bc *BlockChain) Len() int {
	if bc == nil {
		return 0
	}
	return len(bc.Blocks)
}

// Head is the highest block of the chain, nil when empty.
func (bc *BlockChain) Head() *block.Block {
	if bc.Len() == 0 {
		return nil
	}
	return bc.Blocks[len(bc.Blocks)-1]
}

// Tail is the lowest block of the chain, nil when empty.
func (bc *BlockChain) Tail() *block.Block {
	if bc.Len() == 0 {
		return nil
	}
	return bc.Blocks[0]
}

// LowestCommonAncestor returns the highest block present in both prefixes,
// or nil when the chains share no block.
func LowestCommonAncestor(bc1, bc2 *BlockChain) *block.Block {
	if bc1 == nil || bc2 == nil {
		return nil
	}
	seen := make(map[block.Hash]struct{}, len(bc1.Blocks))
	for _, b := range bc1.Blocks {
		seen[b.Hash()] = struct{}{}
	}
	for i := len(bc2.Blocks) - 1; i >= 0; i-- {
		if _, ok := seen[bc2.Blocks[i].Hash()]; ok {
			return bc2.Blocks[i]
		}
	}
	return nil
}

// HeaderChain is the dense suffix of a chain proof: consecutive headers.
type HeaderChain struct {
	Headers []*block.BlockHeader `json:"headers"`
}

func NewHeaderChain(headers []*block.BlockHeader) *HeaderChain {
	return &HeaderChain{Headers: headers}
}

func (hc *HeaderChain) Len() int {
	if hc == nil {
		return 0
	}
	return len(hc.Headers)
}

func (hc *HeaderChain) Head() *block.BlockHeader {
	if hc.Len() == 0 {
		return nil
	}
	return hc.Headers[len(hc.Headers)-1]
}

// TotalDifficulty sums the claimed difficulty over the suffix headers.
func (hc *HeaderChain) TotalDifficulty() int64 {
	if hc == nil {
		return 0
	}
	var total int64
	for _, h := range hc.Headers {
		target, ok := h.Target()
		if !ok {
			continue
		}
		total += block.TargetToDifficulty(target)
	}
	return total
}

// ChainProof is a NIPoPoW proof: a sparse superblock prefix carrying the
// bulk of the claimed work plus a dense suffix anchoring the tip.
type ChainProof struct {
	Prefix *BlockChain  `json:"prefix"`
	Suffix *HeaderChain `json:"suffix"`
}

func NewChainProof(prefix *BlockChain, suffix *HeaderChain) *ChainProof {
	return &ChainProof{Prefix: prefix, Suffix: suffix}
}

// Head is the claimed tip header: the last suffix header, or the prefix
// head for a suffix-less proof.
func (p *ChainProof) Head() *block.BlockHeader {
	if h := p.Suffix.Head(); h != nil {
		return h
	}
	if b := p.Prefix.Head(); b != nil {
		return &b.Header
	}
	return nil
}

// HeadHeight is the height of the claimed tip.
func (p *ChainProof) HeadHeight() uint64 {
	if h := p.Head(); h != nil {
		return h.Height
	}
	return 0
}

var (
	errEmptyPrefix     = errors.New("proof prefix is empty")
	errPrefixOrder     = errors.New("prefix heights not strictly increasing")
	errPrefixPow       = errors.New("prefix block fails proof of work")
	errPrefixInterlink = errors.New("prefix block interlink commitment mismatch")
	errPrefixLink      = errors.New("prefix block not referenced by successor interlink")
	errSuffixOrder     = errors.New("suffix headers not consecutive")
)

// Verify checks the internal consistency of the proof: prefix ordering,
// per-block proof-of-work, interlink commitments and superchain linkage,
// and suffix height continuity. Suffix interlinks are recomputed by the
// consumer, which has the predecessor blocks at hand.
func (p *ChainProof) Verify() error {
	if p.Prefix == nil || p.Prefix.Len() == 0 {
		return errEmptyPrefix
	}

	genesisHash := block.GenesisHash()
	for i, b := range p.Prefix.Blocks {
		if i > 0 && b.Height() <= p.Prefix.Blocks[i-1].Height() {
			return fmt.Errorf("%w: index %d", errPrefixOrder, i)
		}
		// Genesis is defined, not mined.
		if b.Hash() != genesisHash && !b.Header.VerifyProofOfWork() {
			return fmt.Errorf("%w: height %d", errPrefixPow, b.Height())
		}
		if b.Interlink.Hash() != b.Header.InterlinkHash {
			return fmt.Errorf("%w: height %d", errPrefixInterlink, b.Height())
		}
		if i > 0 {
			prev := p.Prefix.Blocks[i-1]
			if !b.Interlink.Contains(prev.Hash()) && b.PrevHash() != prev.Hash() {
				return fmt.Errorf("%w: height %d", errPrefixLink, b.Height())
			}
		}
	}

	if p.Suffix != nil {
		base := p.Prefix.Head().Height()
		for i, h := range p.Suffix.Headers {
			if h.Height != base+uint64(i)+1 {
				return fmt.Errorf("%w: index %d", errSuffixOrder, i)
			}
		}
	}

	return nil
}

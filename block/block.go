package block

import (
	"github.com/holiman/uint256"
)

// Block pairs a header with the interlink the header commits to. The
// light client never carries block bodies; BodyHash stays opaque.
type Block struct {
	Header    BlockHeader `json:"header"`
	Interlink Interlink   `json:"interlink"`
}

func NewBlock(header BlockHeader, interlink Interlink) *Block {
	return &Block{Header: header, Interlink: interlink}
}

func (b *Block) Hash() Hash {
	return b.Header.Hash()
}

func (b *Block) Height() uint64 {
	return b.Header.Height
}

func (b *Block) PrevHash() Hash {
	return b.Header.PrevHash
}

// Difficulty is the claimed difficulty derived from the header target.
func (b *Block) Difficulty() int64 {
	target, ok := b.Header.Target()
	if !ok {
		return 1
	}
	return TargetToDifficulty(target)
}

// HashDepth returns the superblock level this block reaches relative to
// target: the largest d with hashValue * 2^d <= target, floored at 0.
func HashDepth(h Hash, target *uint256.Int) int {
	value := HashToTarget(h)
	if target == nil || value.IsZero() || value.Cmp(target) > 0 {
		return 0
	}
	q := new(uint256.Int).Div(target, value)
	if q.IsZero() {
		return 0
	}
	return q.BitLen() - 1
}

// GetNextInterlink derives the interlink of a successor block mined at
// target. Levels up to this block's depth point at this block; higher
// levels carry over from its own interlink.
func (b *Block) GetNextInterlink(target *uint256.Int) Interlink {
	hash := b.Hash()
	depth := HashDepth(hash, target)

	length := depth + 1
	if len(b.Interlink) > length {
		length = len(b.Interlink)
	}

	next := make(Interlink, length)
	for i := 0; i <= depth; i++ {
		next[i] = hash
	}
	for i := depth + 1; i < len(b.Interlink); i++ {
		next[i] = b.Interlink[i]
	}
	return next
}

// ToLight returns the header-and-interlink form used inside chain proofs.
// Blocks here are already light, so this is a defensive copy.
func (b *Block) ToLight() *Block {
	return &Block{Header: b.Header, Interlink: b.Interlink.clone()}
}

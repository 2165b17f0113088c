package block

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"
)

// BlockHeader is the light-client view of a block: everything needed to
// verify proof-of-work, chain succession and the interlink commitment.
type BlockHeader struct {
	Version       uint16 `json:"version"`
	PrevHash      Hash   `json:"prevHash"`
	InterlinkHash Hash   `json:"interlinkHash"`
	BodyHash      Hash   `json:"bodyHash"`
	NBits         uint32 `json:"nBits"`
	Height        uint64 `json:"height"`
	Timestamp     uint64 `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
}

// headerSerializedSize is the fixed wire width of a header.
const headerSerializedSize = 2 + 3*HashSize + 4 + 8 + 8 + 8

// Serialize renders the canonical byte form the header hash is taken over.
func (h *BlockHeader) Serialize() []byte {
	buf := make([]byte, 0, headerSerializedSize)
	buf = binary.BigEndian.AppendUint16(buf, h.Version)
	buf = append(buf, h.PrevHash[:]...)
	buf = append(buf, h.InterlinkHash[:]...)
	buf = append(buf, h.BodyHash[:]...)
	buf = binary.BigEndian.AppendUint32(buf, h.NBits)
	buf = binary.BigEndian.AppendUint64(buf, h.Height)
	buf = binary.BigEndian.AppendUint64(buf, h.Timestamp)
	buf = binary.BigEndian.AppendUint64(buf, h.Nonce)
	return buf
}

func (h *BlockHeader) Hash() Hash {
	return Hash(blake2b.Sum256(h.Serialize()))
}

// Target expands the header's compact difficulty encoding.
func (h *BlockHeader) Target() (*uint256.Int, bool) {
	return CompactToTarget(h.NBits)
}

// VerifyProofOfWork checks that the header hash satisfies its own declared
// target and that the target itself is inside the allowed range.
func (h *BlockHeader) VerifyProofOfWork() bool {
	target, ok := h.Target()
	if !ok || !IsValidTarget(target) {
		return false
	}
	return HashToTarget(h.Hash()).Cmp(target) <= 0
}

// IsImmediateSuccessorOf checks the pure header-chain succession rules
// against prev: hash linkage, height increment and strictly increasing
// timestamp.
func (h *BlockHeader) IsImmediateSuccessorOf(prev *BlockHeader) bool {
	if prev == nil {
		return false
	}
	if h.PrevHash != prev.Hash() {
		return false
	}
	if h.Height != prev.Height+1 {
		return false
	}
	return h.Timestamp > prev.Timestamp
}

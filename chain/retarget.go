package chain

import (
	"time"

	"github.com/holiman/uint256"

	"nipow/block"
	"nipow/chainstore"
)

// retargetClamp bounds how far one retarget may move the target.
const retargetClamp = 4

// nextTarget computes the required target for the successor of tip by
// scaling the tip target with the observed solve time over the retarget
// window. Returns ok=false while fewer than RetargetWindow predecessors
// are reachable through the store (short chains, or a freshly adopted
// proof whose sparse prefix leaves gaps below the prefix head).
func (e *Engine) nextTarget(tip *chainstore.ChainData) (*uint256.Int, bool) {
	window := uint64(e.params.RetargetWindow)
	tipHeader := tip.Head.Header
	if tipHeader.Height < window {
		return nil, false
	}

	cur := tip.Head
	for i := uint64(0); i < window; i++ {
		prev, err := e.store.GetBlock(cur.PrevHash())
		if err != nil || prev == nil {
			return nil, false
		}
		cur = prev
	}
	first := cur.Header

	tipTarget, ok := tipHeader.Target()
	if !ok {
		return nil, false
	}

	actual := tipHeader.Timestamp - first.Timestamp
	expected := window * uint64(e.params.BlockTime/time.Second)

	// Clamp the timespan before scaling so a single retarget can move the
	// target at most 4x in either direction. Dividing before multiplying
	// keeps the product inside 256 bits for targets near the pow limit.
	if actual < expected/retargetClamp {
		actual = expected / retargetClamp
	}
	if actual > expected*retargetClamp {
		actual = expected * retargetClamp
	}

	next := new(uint256.Int).Div(tipTarget, uint256.NewInt(expected))
	if _, overflow := next.MulOverflow(next, uint256.NewInt(actual)); overflow {
		next.Set(block.PowLimit())
	}
	if limit := block.PowLimit(); next.Cmp(limit) > 0 {
		next.Set(limit)
	}
	if next.IsZero() {
		next.SetUint64(1)
	}

	return next, true
}

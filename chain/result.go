package chain

// Result is the wire-stable outcome code of a header push.
type Result int

const (
	// ErrOrphan means the predecessor is unknown or non-extendable.
	ErrOrphan Result = -2
	// ErrInvalid means a PoW, succession, difficulty or interlink check failed.
	ErrInvalid Result = -1
	// OkKnown means the block is already in the store.
	OkKnown Result = 0
	// OkExtended means the block became the new main chain head.
	OkExtended Result = 1
	// OkRebranched means the block completed a heavier fork and triggered a reorg.
	OkRebranched Result = 2
	// OkForked means the block was stored on a side branch.
	OkForked Result = 3
)

func (r Result) String() string {
	switch r {
	case ErrOrphan:
		return "orphan"
	case ErrInvalid:
		return "invalid"
	case OkKnown:
		return "known"
	case OkExtended:
		return "extended"
	case OkRebranched:
		return "rebranched"
	case OkForked:
		return "forked"
	default:
		return "unknown"
	}
}

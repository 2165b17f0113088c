package config

import "time"

// Protocol parameters. Proof producers and consumers must agree on K and M.
const (
	// DefaultK is the dense-suffix length of a chain proof.
	DefaultK = 30

	// DefaultM is the minimum superblock count in the proof scoring rule.
	DefaultM = 20

	// DefaultRetargetWindow is the number of solve times averaged by the
	// difficulty retarget.
	DefaultRetargetWindow = 120

	// DefaultBlockTime is the target block interval.
	DefaultBlockTime = 60 * time.Second
)

package block

import (
	"math"
	"math/bits"

	"github.com/holiman/uint256"
)

// PowLimitBits is the compact encoding of the easiest allowed target.
// It expands to 0xffff * 2^240, the difficulty-1 target.
const PowLimitBits uint32 = 0x2100ffff

// powLimit is the expanded PowLimitBits target.
var powLimit = func() *uint256.Int {
	t, ok := CompactToTarget(PowLimitBits)
	if !ok {
		panic("invalid pow limit encoding")
	}
	return t
}()

// PowLimit returns a copy of the easiest allowed target.
func PowLimit() *uint256.Int {
	return new(uint256.Int).Set(powLimit)
}

// HashToTarget interprets a hash as a big-endian target value.
func HashToTarget(h Hash) *uint256.Int {
	return new(uint256.Int).SetBytes(h[:])
}

// IsValidTarget reports whether target is in (0, powLimit].
func IsValidTarget(target *uint256.Int) bool {
	if target == nil || target.IsZero() {
		return false
	}
	return target.Cmp(powLimit) <= 0
}

// TargetDepth returns the superblock level of a target: the number of
// halvings separating it from the pow limit. A difficulty-1 target is at
// depth 0, each level above is exponentially rarer.
func TargetDepth(target *uint256.Int) int {
	if target == nil || target.IsZero() || target.Cmp(powLimit) >= 0 {
		return 0
	}
	q := new(uint256.Int).Div(powLimit, target)
	if q.IsZero() {
		return 0
	}
	return q.BitLen() - 1
}

// TargetToDifficulty converts a target into its integer difficulty,
// powLimit / target, floored and never below 1.
func TargetToDifficulty(target *uint256.Int) int64 {
	if target == nil || target.IsZero() {
		return 1
	}
	q := new(uint256.Int).Div(powLimit, target)
	if !q.IsUint64() || q.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}
	if q.IsZero() {
		return 1
	}
	return int64(q.Uint64())
}

// RealDifficulty measures the work actually expended on a hash,
// powLimit / hashValue. Unlike the claimed difficulty this is inferred
// from the hash itself.
func RealDifficulty(h Hash) int64 {
	return TargetToDifficulty(HashToTarget(h))
}

// TargetToCompact encodes a target in the nBits compact form.
func TargetToCompact(target *uint256.Int) uint32 {
	if target == nil || target.IsZero() {
		return 0
	}

	exponent := uint32((target.BitLen() + 7) / 8)
	var mantissa uint32
	if exponent <= 3 {
		mantissa = uint32(target.Uint64() << (8 * (3 - exponent)))
	} else {
		shifted := new(uint256.Int).Rsh(target, uint(8*(exponent-3)))
		mantissa = uint32(shifted.Uint64())
	}

	// Keep the sign bit of the mantissa clear.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	return exponent<<24 | mantissa
}

// CompactToTarget expands an nBits compact encoding. The second return is
// false for malformed encodings (sign bit set, zero mantissa, overflow).
func CompactToTarget(nBits uint32) (*uint256.Int, bool) {
	mantissa := nBits & 0x007fffff
	if nBits&0x00800000 != 0 || mantissa == 0 {
		return nil, false
	}

	exponent := int(nBits >> 24)
	if exponent <= 3 {
		truncated := mantissa >> (8 * (3 - exponent))
		if truncated == 0 {
			return nil, false
		}
		return uint256.NewInt(uint64(truncated)), true
	}

	shift := 8 * (exponent - 3)
	if bits.Len32(mantissa)+shift > 256 {
		return nil, false
	}
	target := uint256.NewInt(uint64(mantissa))
	target.Lsh(target, uint(shift))
	if target.IsZero() {
		return nil, false
	}
	return target, true
}

package block

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowLimitEncoding(t *testing.T) {
	limit := PowLimit()
	require.True(t, IsValidTarget(limit))

	// 0xffff * 2^240
	expected := uint256.NewInt(0xffff)
	expected.Lsh(expected, 240)
	assert.Equal(t, expected, limit)

	assert.Equal(t, PowLimitBits, TargetToCompact(limit))
}

func TestCompactRoundTrip(t *testing.T) {
	for _, bits := range []uint32{
		PowLimitBits,
		0x1d00ffff, // bitcoin mainnet limit
		0x170331db,
		0x03123456,
		0x01120000,
	} {
		target, ok := CompactToTarget(bits)
		require.True(t, ok, "bits %08x should expand", bits)
		assert.Equal(t, bits, TargetToCompact(target), "bits %08x should round trip", bits)
	}
}

func TestCompactToTargetRejectsMalformed(t *testing.T) {
	for _, bits := range []uint32{
		0x00000000, // zero mantissa
		0x04800000, // sign bit set
		0x21000000, // zero mantissa, large exponent
		0xff123456, // overflows 256 bits
	} {
		_, ok := CompactToTarget(bits)
		assert.False(t, ok, "bits %08x should be rejected", bits)
	}
}

func TestIsValidTarget(t *testing.T) {
	assert.False(t, IsValidTarget(nil))
	assert.False(t, IsValidTarget(uint256.NewInt(0)))
	assert.True(t, IsValidTarget(uint256.NewInt(1)))
	assert.True(t, IsValidTarget(PowLimit()))

	above := PowLimit()
	above.AddUint64(above, 1)
	assert.False(t, IsValidTarget(above))
}

func TestTargetDepth(t *testing.T) {
	assert.Equal(t, 0, TargetDepth(PowLimit()))

	for depth := 1; depth <= 16; depth++ {
		target := PowLimit()
		target.Rsh(target, uint(depth))
		assert.Equal(t, depth, TargetDepth(target), "pow limit >> %d", depth)
	}
}

func TestTargetToDifficulty(t *testing.T) {
	assert.Equal(t, int64(1), TargetToDifficulty(PowLimit()))

	half := PowLimit()
	half.Rsh(half, 1)
	assert.Equal(t, int64(2), TargetToDifficulty(half))

	eighth := PowLimit()
	eighth.Rsh(eighth, 3)
	assert.Equal(t, int64(8), TargetToDifficulty(eighth))
}

func TestRealDifficultyNeverZero(t *testing.T) {
	var worst Hash
	for i := range worst {
		worst[i] = 0xff
	}
	assert.GreaterOrEqual(t, RealDifficulty(worst), int64(1))
}

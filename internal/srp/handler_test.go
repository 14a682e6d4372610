package srp

import (
	"math/big"
	"testing"

	"github.com/dpetukhov/srpvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupParameters(t *testing.T) {
	n, g, k := GroupParameters()
	assert.Equal(t, 2048, n.BitLen())
	assert.Equal(t, int64(2), g.Int64())
	assert.NotZero(t, k.Sign())
}

func TestRandomSeed_RangeAndFreshness(t *testing.T) {
	h := NewHandler()

	a, err := h.RandomSeed()
	require.NoError(t, err)
	b, err := h.RandomSeed()
	require.NoError(t, err)

	for _, v := range []*big.Int{a, b} {
		assert.True(t, v.Sign() > 0, "seed must be positive")
		assert.True(t, v.Cmp(groupN) < 0, "seed must be below N")
	}
	assert.NotZero(t, a.Cmp(b), "two seeds must differ")
}

func TestPublicServerEphemeral_Deterministic(t *testing.T) {
	h := NewHandler()
	b := big.NewInt(123456789)
	v := big.NewInt(987654321)

	B1 := h.PublicServerEphemeral(b, v)
	B2 := h.PublicServerEphemeral(b, v)

	assert.Zero(t, B1.Cmp(B2))
	assert.True(t, B1.Cmp(groupN) < 0)
	assert.NotZero(t, B1.Sign())
}

func TestSessionServer_RejectsDegenerateEphemeral(t *testing.T) {
	h := NewHandler()
	b, err := h.RandomSeed()
	require.NoError(t, err)
	v := big.NewInt(42)
	B := h.PublicServerEphemeral(b, v)

	for _, A := range []*big.Int{
		big.NewInt(0),
		new(big.Int).Set(groupN),
		new(big.Int).Mul(groupN, big.NewInt(2)),
	} {
		_, err := h.SessionServer(A, B, b, v)
		assert.ErrorIs(t, err, common.ErrInvalidEphemeral, "A=%s", A)
	}
}

func TestSessionServer_AcceptsValidEphemeral(t *testing.T) {
	h := NewHandler()
	b, err := h.RandomSeed()
	require.NoError(t, err)
	v := big.NewInt(42)
	B := h.PublicServerEphemeral(b, v)

	S, err := h.SessionServer(big.NewInt(7), B, b, v)
	require.NoError(t, err)
	assert.NotZero(t, S.Sign())
}

func TestFirstMatcher_SensitiveToInputs(t *testing.T) {
	h := NewHandler()
	A := big.NewInt(1111)
	B := big.NewInt(2222)
	S := big.NewInt(3333)

	m := h.FirstMatcher(A, B, S)
	assert.Len(t, m, 64)

	flipped := new(big.Int).Xor(S, big.NewInt(1))
	assert.NotEqual(t, m, h.FirstMatcher(A, B, flipped))
	assert.NotEqual(t, m, h.FirstMatcher(B, A, S))
}

func TestSecondMatcher_DependsOnFirst(t *testing.T) {
	h := NewHandler()
	A := big.NewInt(1111)
	B := big.NewInt(2222)
	S := big.NewInt(3333)

	m1 := h.FirstMatcher(A, B, S)
	m2 := h.SecondMatcher(A, m1, S)
	assert.Len(t, m2, 64)
	assert.NotEqual(t, m2, h.SecondMatcher(A, h.FirstMatcher(A, B, big.NewInt(4)), S))
}

func TestSessionKey_Stable(t *testing.T) {
	h := NewHandler()
	S := big.NewInt(555)
	assert.Equal(t, h.SessionKey(S), h.SessionKey(new(big.Int).Set(S)))
}

func TestDecodeInt(t *testing.T) {
	v, ok := DecodeInt("0abc")
	require.True(t, ok)
	assert.Equal(t, int64(0xabc), v.Int64())

	_, ok = DecodeInt("")
	assert.False(t, ok)
	_, ok = DecodeInt("zz")
	assert.False(t, ok)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := big.NewInt(0x1234abcd)
	v, ok := DecodeInt(EncodeInt(orig))
	require.True(t, ok)
	assert.Zero(t, orig.Cmp(v))
}

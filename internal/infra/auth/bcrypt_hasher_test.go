package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasher() *bcryptHasher {
	return newBcryptHasher(bcrypt.MinCost)
}

func TestBcryptHasher_HashAndCheck_RoundTrip(t *testing.T) {
	hasher := testHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Check("correct horse battery staple", hash))
	assert.False(t, hasher.Check("correct horse battery stapl", hash))
}

func TestBcryptHasher_Hash_SaltsEveryCall(t *testing.T) {
	hasher := testHasher()

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("same password", first))
	assert.True(t, hasher.Check("same password", second))
}

func TestBcryptHasher_LongPassword_HashesAndVerifies(t *testing.T) {
	hasher := testHasher()
	long := strings.Repeat("a", 200)

	hash, err := hasher.Hash(long)
	require.NoError(t, err)

	assert.True(t, hasher.Check(long, hash))
}

func TestBcryptHasher_TruncationAgreesOnBothSides(t *testing.T) {
	hasher := testHasher()

	// Two passwords sharing the first 72 bytes are the same password as far
	// as the primitive is concerned.
	base := strings.Repeat("x", maxPasswordBytes)
	hash, err := hasher.Hash(base + "tail-one")
	require.NoError(t, err)

	assert.True(t, hasher.Check(base+"completely different tail", hash))
	assert.True(t, hasher.Check(base, hash))
	assert.False(t, hasher.Check(base[:maxPasswordBytes-1], hash))
}

func TestBcryptHasher_Check_MalformedHash(t *testing.T) {
	hasher := testHasher()

	assert.False(t, hasher.Check("whatever", ""))
	assert.False(t, hasher.Check("whatever", "not-a-bcrypt-hash"))
}

func TestTruncateToByteLimit_ShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "short", truncateToByteLimit("short"))
	exact := strings.Repeat("a", maxPasswordBytes)
	assert.Equal(t, exact, truncateToByteLimit(exact))
}

func TestTruncateToByteLimit_NeverSplitsARune(t *testing.T) {
	// 71 ASCII bytes then a 3-byte rune: the cut at 72 lands mid-rune and
	// the whole rune must be dropped.
	input := strings.Repeat("a", 71) + "世界"

	out := truncateToByteLimit(input)

	assert.Equal(t, strings.Repeat("a", 71), out)
	assert.LessOrEqual(t, len(out), maxPasswordBytes)

	// Hashing the full string and checking the truncated one agree.
	hasher := testHasher()
	hash, err := hasher.Hash(input)
	require.NoError(t, err)
	assert.True(t, hasher.Check(out, hash))
}

func TestTruncateToByteLimit_MultiByteHeavyInput(t *testing.T) {
	input := strings.Repeat("é", 60) // 120 bytes of 2-byte runes

	out := truncateToByteLimit(input)

	assert.LessOrEqual(t, len(out), maxPasswordBytes)
	assert.Equal(t, 0, len(out)%2, "output must end on a rune boundary")
}

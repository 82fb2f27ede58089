package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	require.NotEqual(t, "correct horse battery staple", digest)

	require.True(t, hasher.Verify("correct horse battery staple", digest))
	require.False(t, hasher.Verify("wrong password", digest))
}

func TestPasswordHasher_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(bcrypt.MinCost)

	a, err := hasher.Hash("pw")
	require.NoError(t, err)
	b, err := hasher.Hash("pw")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestPasswordHasher_MalformedDigestFailsClosed(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(bcrypt.MinCost)

	require.False(t, hasher.Verify("pw", ""))
	require.False(t, hasher.Verify("pw", "not-a-bcrypt-digest"))
}

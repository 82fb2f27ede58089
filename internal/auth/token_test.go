package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scoreboard-server/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "user-123",
		Username: "alice",
		Role:     domain.RoleUser,
		Active:   true,
	}
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("super-secret"), time.Hour)
	user := testUser()

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, user.Username, claims.Username)
	require.Equal(t, user.Role, claims.Role)
	require.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("secret"), -time.Second)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenIssuer([]byte("right-secret"), time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenIssuer([]byte("wrong-secret"), time.Hour).Verify(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("k"), time.Hour)

	_, err := issuer.Verify("not.a.jwt")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"scoreboard-server/internal/domain"
)

func claimsFor(id, username string, role domain.Role) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: id},
		Username:         username,
		Role:             role,
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	alice := claimsFor("id-alice", "alice", domain.RoleUser)
	admin := claimsFor("id-admin", "root", domain.RoleAdmin)

	tests := []struct {
		name             string
		caller           *Claims
		targetUserID     string
		targetPlayerName string
		wantErr          error
	}{
		{name: "self with no target", caller: alice},
		{name: "self by own id", caller: alice, targetUserID: "id-alice"},
		{name: "self by own name", caller: alice, targetPlayerName: "alice"},
		{name: "other user id denied", caller: alice, targetUserID: "id-bob", wantErr: domain.ErrForbidden},
		{name: "other player name denied", caller: alice, targetPlayerName: "bob", wantErr: domain.ErrForbidden},
		{name: "admin any user id", caller: admin, targetUserID: "id-bob"},
		{name: "admin any player name", caller: admin, targetPlayerName: "bob"},
		{name: "admin no target", caller: admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.targetUserID, tt.targetPlayerName)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"scoreboard-server/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewScoreRepository(db).Init(ctx))
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "digest",
		Role:         domain.RoleUser,
		Active:       true,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func addScore(t *testing.T, db *sql.DB, userID string, value int64) *domain.Score {
	t.Helper()

	score := &domain.Score{
		ID:     uuid.NewString(),
		Value:  value,
		UserID: userID,
	}
	require.NoError(t, NewScoreRepository(db).Create(context.Background(), score))
	return score
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := createTestUser(t, db, "alice")
	require.False(t, created.CreatedAt.IsZero())

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)
	require.Equal(t, domain.RoleUser, byName.Role)
	require.True(t, byName.Active)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
}

func TestUserRepository_UsernameIsCaseSensitive(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "alice")

	_, err := repo.GetByUsername(ctx, "Alice")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, db, "alice")

	dupe := &domain.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		PasswordHash: "other",
		Role:         domain.RoleUser,
		Active:       true,
	}
	err := repo.Create(context.Background(), dupe)
	require.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUserRepository_NotFound(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.GetByID(ctx, "no-such-id")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestScoreRepository_ListByUserOrderAndCap(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	repo := NewScoreRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for _, v := range []int64{300, 500, 100} {
		addScore(t, db, alice.ID, v)
	}
	addScore(t, db, bob.ID, 900)

	scores, err := repo.ListByUser(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	require.Equal(t, int64(500), scores[0].Value)
	require.Equal(t, int64(300), scores[1].Value)
	require.Equal(t, int64(100), scores[2].Value)

	capped, err := repo.ListByUser(ctx, alice.ID, 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)
}

func TestScoreRepository_BestByUser(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	repo := NewScoreRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	best, err := repo.BestByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Nil(t, best)

	addScore(t, db, alice.ID, 300)
	addScore(t, db, alice.ID, 500)

	best, err = repo.BestByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, best)
	require.Equal(t, int64(500), best.Value)
}

func TestScoreRepository_Leaderboard(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	repo := NewScoreRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	addScore(t, db, alice.ID, 500)
	addScore(t, db, alice.ID, 300)
	addScore(t, db, bob.ID, 900)
	addScore(t, db, carol.ID, 700)

	entries, err := repo.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "bob", entries[0].PlayerName)
	require.Equal(t, int64(900), entries[0].Score)
	require.Equal(t, "carol", entries[1].PlayerName)
	require.Equal(t, "alice", entries[2].PlayerName)
	require.Equal(t, int64(500), entries[2].Score)
	require.False(t, entries[0].AchievedAt.IsZero())
}

func TestScoreRepository_LeaderboardTruncates(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	repo := NewScoreRepository(db)
	ctx := context.Background()

	for i, name := range []string{"a", "b", "c", "d"} {
		u := createTestUser(t, db, name)
		addScore(t, db, u.ID, int64(100*(i+1)))
	}

	entries, err := repo.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "d", entries[0].PlayerName)
	require.Equal(t, "c", entries[1].PlayerName)
}

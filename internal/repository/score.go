package repository

import (
	"context"

	"scoreboard-server/internal/domain"
)

// ScoreRepository exposes persistence operations for Score records. Scores are
// create-only; there is no update or delete.
type ScoreRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, score *domain.Score) error
	// ListByUser returns the user's scores ordered by value descending then
	// created_at descending, capped at limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Score, error)
	// BestByUser returns the user's highest score, or nil if the user has
	// never submitted.
	BestByUser(ctx context.Context, userID string) (*domain.Score, error)
	// Leaderboard aggregates every user's best score, ordered by best value
	// descending and truncated to limit. Ranks are not assigned here.
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

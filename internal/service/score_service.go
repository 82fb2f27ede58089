package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"scoreboard-server/internal/auth"
	"scoreboard-server/internal/domain"
	"scoreboard-server/internal/repository"
)

const (
	defaultLeaderboardLimit = 10
	userHistoryLimit        = 10
)

// ScoreService coordinates score submission and ranked reads.
type ScoreService interface {
	Submit(ctx context.Context, caller *auth.Claims, value int64, targetUserID, targetPlayerName string) (*domain.Score, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	UserScores(ctx context.Context, userID string) ([]domain.Score, error)
	HighScore(ctx context.Context, userID string) (*domain.Score, error)
}

type scoreService struct {
	scores repository.ScoreRepository
	users  repository.UserRepository
}

func NewScoreService(scores repository.ScoreRepository, users repository.UserRepository) ScoreService {
	return &scoreService{
		scores: scores,
		users:  users,
	}
}

// Submit records a score for the resolved owner. Ownership must already have
// been authorized; this workflow only resolves which user an admin target
// refers to. A failed persist surfaces as a storage error, never retried.
func (s *scoreService) Submit(ctx context.Context, caller *auth.Claims, value int64, targetUserID, targetPlayerName string) (*domain.Score, error) {
	if value <= 0 {
		return nil, domain.ErrInvalidScore
	}

	ownerID := caller.Subject
	if caller.Role == domain.RoleAdmin {
		switch {
		case targetUserID != "":
			target, err := s.users.GetByID(ctx, targetUserID)
			if err != nil {
				return nil, err
			}
			ownerID = target.ID
		case targetPlayerName != "":
			target, err := s.users.GetByUsername(ctx, targetPlayerName)
			if err != nil {
				return nil, err
			}
			ownerID = target.ID
		}
	}

	score := &domain.Score{
		ID:     uuid.NewString(),
		Value:  value,
		UserID: ownerID,
	}
	if err := s.scores.Create(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

// Leaderboard returns each user's best score ranked descending. Ranks are
// consecutive 1-based positions; tied best scores get distinct ranks in an
// unspecified relative order.
func (s *scoreService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	entries, err := s.scores.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// UserScores returns the caller's recent standings: value descending, then
// most recent first, capped at ten entries.
func (s *scoreService) UserScores(ctx context.Context, userID string) ([]domain.Score, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.scores.ListByUser(ctx, userID, userHistoryLimit)
}

// HighScore returns the user's single best score, or nil if they have never
// submitted.
func (s *scoreService) HighScore(ctx context.Context, userID string) (*domain.Score, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.scores.BestByUser(ctx, userID)
}

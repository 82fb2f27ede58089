package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"scoreboard-server/internal/domain"
	"scoreboard-server/internal/repository"
)

const createScoresTable = `
CREATE TABLE IF NOT EXISTS scores (
	id TEXT PRIMARY KEY,
	value INTEGER NOT NULL,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL
);
`

const createScoresIndex = `
CREATE INDEX IF NOT EXISTS idx_scores_user_value ON scores(user_id, value DESC);
`

type ScoreRepository struct {
	db *sql.DB
}

func NewScoreRepository(db *sql.DB) repository.ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createScoresTable); err != nil {
		return fmt.Errorf("create scores table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createScoresIndex); err != nil {
		return fmt.Errorf("create scores index: %w", err)
	}
	return nil
}

func (r *ScoreRepository) Create(ctx context.Context, score *domain.Score) error {
	score.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO scores (id, value, user_id, created_at)
VALUES (?, ?, ?, ?)`,
		score.ID,
		score.Value,
		score.UserID,
		formatTime(score.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (r *ScoreRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Score, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, value, user_id, created_at
FROM scores
WHERE user_id = ?
ORDER BY value DESC, created_at DESC
LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query user scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.Score
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user scores: %w", err)
	}
	return scores, nil
}

func (r *ScoreRepository) BestByUser(ctx context.Context, userID string) (*domain.Score, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, value, user_id, created_at
FROM scores
WHERE user_id = ?
ORDER BY value DESC
LIMIT 1`,
		userID,
	)

	score, err := scanScore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return score, nil
}

func (r *ScoreRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT u.username, MAX(s.value) AS best, MAX(s.created_at) AS achieved_at
FROM scores s
JOIN users u ON u.id = s.user_id
GROUP BY u.id, u.username
ORDER BY best DESC
LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		var achievedAt string
		if err := rows.Scan(&e.PlayerName, &e.Score, &achievedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		if e.AchievedAt, err = parseTime(achievedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

func scanScore(row interface {
	Scan(dest ...any) error
}) (*domain.Score, error) {
	var s domain.Score
	var createdAt string
	if err := row.Scan(&s.ID, &s.Value, &s.UserID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan score: %w", err)
	}

	var err error
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &s, nil
}

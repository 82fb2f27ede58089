package domain

import "time"

// Score is a single submitted result. Scores are immutable once created.
type Score struct {
	ID        string
	Value     int64
	UserID    string
	CreatedAt time.Time
}

// LeaderboardEntry is one ranked row of the leaderboard view: a user's best
// score and when it was achieved.
type LeaderboardEntry struct {
	Rank       int
	PlayerName string
	Score      int64
	AchievedAt time.Time
}

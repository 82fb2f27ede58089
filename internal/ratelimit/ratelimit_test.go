package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scoreboard-server/internal/domain"
)

func newTestLimiter(limits map[Class]Limit) (*Limiter, *time.Time) {
	l := New(limits)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_DeniesAboveMax(t *testing.T) {
	l, _ := newTestLimiter(map[Class]Limit{
		ClassSubmission: {Window: time.Minute, MaxRequests: 3},
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow("alice", ClassSubmission))
	}

	err := l.Allow("alice", ClassSubmission)
	var rateErr *domain.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	require.Equal(t, time.Minute, rateErr.RetryAfter)
}

func TestLimiter_WindowExpiryResets(t *testing.T) {
	l, now := newTestLimiter(map[Class]Limit{
		ClassSubmission: {Window: time.Minute, MaxRequests: 1},
	})

	require.NoError(t, l.Allow("alice", ClassSubmission))
	require.Error(t, l.Allow("alice", ClassSubmission))

	*now = now.Add(time.Minute)
	require.NoError(t, l.Allow("alice", ClassSubmission))
}

func TestLimiter_RetryAfterShrinks(t *testing.T) {
	l, now := newTestLimiter(map[Class]Limit{
		ClassSubmission: {Window: time.Minute, MaxRequests: 1},
	})

	require.NoError(t, l.Allow("alice", ClassSubmission))

	*now = now.Add(45 * time.Second)
	err := l.Allow("alice", ClassSubmission)
	var rateErr *domain.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	require.Equal(t, 15*time.Second, rateErr.RetryAfter)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(map[Class]Limit{
		ClassDefault:    {Window: time.Minute, MaxRequests: 1},
		ClassSubmission: {Window: time.Minute, MaxRequests: 1},
	})

	// distinct callers do not share a window
	require.NoError(t, l.Allow("alice", ClassSubmission))
	require.NoError(t, l.Allow("bob", ClassSubmission))
	require.Error(t, l.Allow("alice", ClassSubmission))

	// distinct classes do not share a window either
	require.NoError(t, l.Allow("alice", ClassDefault))
}

func TestLimiter_UnconfiguredClassAllows(t *testing.T) {
	l, _ := newTestLimiter(map[Class]Limit{})

	for i := 0; i < 100; i++ {
		require.NoError(t, l.Allow("alice", ClassDefault))
	}
}

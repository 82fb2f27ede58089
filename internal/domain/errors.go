package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials indicates a failed login, without revealing whether
	// the username exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a missing, malformed, expired or forged bearer token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden indicates the caller may not attribute a score to the
	// requested target identity.
	ErrForbidden = errors.New("forbidden")
	// ErrUserNotFound indicates an admin-specified target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidScore indicates a non-positive submitted score value.
	ErrInvalidScore = errors.New("score must be a positive integer")
	// ErrValidation wraps malformed-input failures (empty or illegal fields).
	ErrValidation = errors.New("validation failed")
)

// RateLimitError reports a denied request together with how long the caller
// must wait for the current window to expire.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter.Round(time.Second))
}

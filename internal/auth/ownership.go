package auth

import "scoreboard-server/internal/domain"

// Authorize decides whether the caller may attribute a score to the requested
// target identity. It runs before any persistence side effect. Admins pass
// unconditionally; which user an admin target resolves to is the submission
// workflow's job. Non-admins may only act on their own identity: a target
// userId or playerName that differs from the caller's own is denied.
func Authorize(caller *Claims, targetUserID, targetPlayerName string) error {
	if caller.Role == domain.RoleAdmin {
		return nil
	}
	if targetUserID != "" && targetUserID != caller.Subject {
		return domain.ErrForbidden
	}
	if targetPlayerName != "" && targetPlayerName != caller.Username {
		return domain.ErrForbidden
	}
	return nil
}

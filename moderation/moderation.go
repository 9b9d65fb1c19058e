// Package moderation is the pending/approved/rejected gate for posts.
package moderation

import (
	"pictora/models"
)

// ValidTarget reports whether a moderation call may set the given status.
// Moderators only ever move posts to approved or rejected; pending is the
// creation state, never a target. Re-moderation (approved ↔ rejected) is
// allowed.
func ValidTarget(to models.ModerationStatus) bool {
	return to == models.StatusApproved || to == models.StatusRejected
}

// CanTransition reports whether from → to is a legal gate transition.
func CanTransition(from, to models.ModerationStatus) bool {
	return ValidTarget(to)
}

// PubliclyVisible reports whether a post in this status appears in the
// public feed and on the shared-link endpoint.
func PubliclyVisible(s models.ModerationStatus) bool {
	return s == models.StatusApproved
}

// Package policy holds the pure authorization decisions. Nothing here touches
// the store; handlers resolve the actor and resource owners first, then ask.
package policy

import (
	"pictora/models"
)

// Actor is the authenticated identity a request acts as.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanModerate: moderation transitions are admin-only.
func CanModerate(a Actor) bool {
	return a.IsAdmin()
}

// CanMutatePost: edit/delete a post requires ownership or admin.
func CanMutatePost(a Actor, ownerID string) bool {
	return a.IsAdmin() || a.ID == ownerID
}

// CanMutateComment: edit a comment requires authorship or admin.
func CanMutateComment(a Actor, authorID string) bool {
	return a.IsAdmin() || a.ID == authorID
}

// CanDeleteComment: the author, the parent post's owner, or an admin.
// postOwnerID is empty when the parent post no longer exists; the post-owner
// rule simply doesn't apply then.
func CanDeleteComment(a Actor, authorID, postOwnerID string) bool {
	if a.IsAdmin() || a.ID == authorID {
		return true
	}
	return postOwnerID != "" && a.ID == postOwnerID
}

// CanViewPost: approved posts are visible to every authenticated actor;
// pending and rejected posts only to their owner or an admin.
func CanViewPost(a Actor, ownerID string, status models.ModerationStatus) bool {
	if status == models.StatusApproved {
		return true
	}
	return a.IsAdmin() || a.ID == ownerID
}

// CanFollow: any actor may follow any other user, never themselves.
func CanFollow(a Actor, targetID string) bool {
	return a.ID != targetID
}

// CanChangeRole: role changes are admin-only.
func CanChangeRole(a Actor) bool {
	return a.IsAdmin()
}

// CanDeleteUser: admins may delete any account except their own.
func CanDeleteUser(a Actor, targetID string) bool {
	return a.IsAdmin() && a.ID != targetID
}

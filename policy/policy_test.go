package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pictora/models"
)

var (
	alice = Actor{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Role: models.RoleUser}
	bob   = Actor{ID: "bbbbbbbbbbbbbbbbbbbbbbbb", Role: models.RoleInfluencer}
	root  = Actor{ID: "cccccccccccccccccccccccc", Role: models.RoleAdmin}
)

func TestCanMutatePost(t *testing.T) {
	assert.True(t, CanMutatePost(alice, alice.ID), "owner edits own post")
	assert.False(t, CanMutatePost(alice, bob.ID), "non-owner denied")
	assert.True(t, CanMutatePost(root, alice.ID), "admin edits anything")
}

func TestCanDeleteComment(t *testing.T) {
	tests := []struct {
		name        string
		actor       Actor
		authorID    string
		postOwnerID string
		want        bool
	}{
		{"author deletes own comment", alice, alice.ID, bob.ID, true},
		{"post owner removes comment on own post", bob, alice.ID, bob.ID, true},
		{"unrelated user denied", bob, alice.ID, root.ID, false},
		{"admin always allowed", root, alice.ID, bob.ID, true},
		{"orphaned comment, author still allowed", alice, alice.ID, "", true},
		{"orphaned comment, stranger denied", bob, alice.ID, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDeleteComment(tt.actor, tt.authorID, tt.postOwnerID))
		})
	}
}

func TestCanViewPost(t *testing.T) {
	assert.True(t, CanViewPost(bob, alice.ID, models.StatusApproved), "approved visible to anyone")
	assert.False(t, CanViewPost(bob, alice.ID, models.StatusPending), "pending hidden from others")
	assert.False(t, CanViewPost(bob, alice.ID, models.StatusRejected), "rejected hidden from others")
	assert.True(t, CanViewPost(alice, alice.ID, models.StatusPending), "owner sees own pending post")
	assert.True(t, CanViewPost(root, alice.ID, models.StatusRejected), "admin sees everything")
}

func TestCanModerate(t *testing.T) {
	assert.False(t, CanModerate(alice))
	assert.False(t, CanModerate(bob), "influencer is not a moderator")
	assert.True(t, CanModerate(root))
}

func TestCanFollow(t *testing.T) {
	assert.True(t, CanFollow(alice, bob.ID))
	assert.False(t, CanFollow(alice, alice.ID), "self-follow denied")
}

func TestCanDeleteUser(t *testing.T) {
	assert.True(t, CanDeleteUser(root, alice.ID))
	assert.False(t, CanDeleteUser(root, root.ID), "admin cannot delete own account")
	assert.False(t, CanDeleteUser(alice, bob.ID), "non-admin cannot delete accounts")
}

func TestCanChangeRole(t *testing.T) {
	assert.True(t, CanChangeRole(root))
	assert.False(t, CanChangeRole(alice))
}

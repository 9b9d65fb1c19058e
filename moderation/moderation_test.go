package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pictora/models"
)

func TestValidTarget(t *testing.T) {
	assert.True(t, ValidTarget(models.StatusApproved))
	assert.True(t, ValidTarget(models.StatusRejected))
	assert.False(t, ValidTarget(models.StatusPending), "pending is never a moderation target")
	assert.False(t, ValidTarget(models.ModerationStatus("published")))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.StatusPending, models.StatusApproved))
	assert.True(t, CanTransition(models.StatusPending, models.StatusRejected))
	assert.True(t, CanTransition(models.StatusApproved, models.StatusRejected), "re-moderation allowed")
	assert.True(t, CanTransition(models.StatusRejected, models.StatusApproved), "re-moderation allowed")
	assert.False(t, CanTransition(models.StatusApproved, models.StatusPending), "no way back to pending")
}

func TestPubliclyVisible(t *testing.T) {
	assert.True(t, PubliclyVisible(models.StatusApproved))
	assert.False(t, PubliclyVisible(models.StatusPending))
	assert.False(t, PubliclyVisible(models.StatusRejected))
}

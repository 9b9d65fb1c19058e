package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles. Anything else is rejected at the
// API boundary.
type Role string

const (
	RoleUser       Role = "user"
	RoleInfluencer Role = "influencer"
	RoleAdmin      Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleInfluencer, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// ModerationStatus is the post visibility lifecycle. New posts start pending.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

func ParseModerationStatus(s string) (ModerationStatus, error) {
	switch ModerationStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return ModerationStatus(s), nil
	}
	return "", fmt.Errorf("invalid moderation status %q", s)
}

// MediaKind of an uploaded blob, inferred from its MIME type.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PublicUser is the user shape embedded in responses. The credential never
// leaves the users collection.
type PublicUser struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Email string             `bson:"email" json:"email"`
	Role  Role               `bson:"role" json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Role: u.Role}
}

type Post struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID   `bson:"user" json:"user"`
	MediaURL   string               `bson:"mediaUrl" json:"mediaUrl"`
	MediaType  MediaKind            `bson:"mediaType" json:"mediaType"`
	Caption    string               `bson:"caption,omitempty" json:"caption,omitempty"`
	Likes      []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments   []primitive.ObjectID `bson:"comments" json:"comments"`
	ShareCount int64                `bson:"shareCount" json:"shareCount"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	Status     ModerationStatus     `bson:"status" json:"status"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	PostID    primitive.ObjectID `bson:"post" json:"post"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// FollowEdge is a directed follower → following relationship. The pair is
// unique (enforced by a compound index in db.EnsureIndexes).
type FollowEdge struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Follower  primitive.ObjectID `bson:"follower" json:"follower"`
	Following primitive.ObjectID `bson:"following" json:"following"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Index represents an event emitted to the message queue after a mutation.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}

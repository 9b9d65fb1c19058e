// Package cascade maintains the referential integrity the store does not
// enforce. Each cascade is an ordered pipeline of independent deletes: a
// failed side step is logged and skipped, only a failure on the root record
// reaches the caller. None of this runs inside a transaction.
package cascade

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pictora/db"
	"pictora/filemgr"
	"pictora/models"
	"pictora/mq"
)

// ErrNotFound is returned when the root record of a cascade does not exist.
var ErrNotFound = mongo.ErrNoDocuments

// DeleteUser removes an account and everything referencing it, in order:
// comments on the user's posts, the posts themselves (blobs released best
// effort), comments the user authored elsewhere, follow edges in either
// direction, and finally the user record.
func DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	var posts []models.Post
	cursor, err := db.PostsCollection.Find(ctx, bson.M{"user": userID})
	if err != nil {
		log.Printf("cascade: listing posts for user %s failed: %v", userID.Hex(), err)
	} else {
		if err := cursor.All(ctx, &posts); err != nil {
			log.Printf("cascade: decoding posts for user %s failed: %v", userID.Hex(), err)
			posts = nil
		}
	}

	if len(posts) > 0 {
		postIDs := make([]primitive.ObjectID, 0, len(posts))
		for _, p := range posts {
			postIDs = append(postIDs, p.ID)
		}
		if _, err := db.CommentsCollection.DeleteMany(ctx, bson.M{"post": bson.M{"$in": postIDs}}); err != nil {
			log.Printf("cascade: deleting comments on posts of user %s failed: %v", userID.Hex(), err)
		}
		for _, p := range posts {
			filemgr.Remove(p.MediaURL)
		}
	}

	if _, err := db.PostsCollection.DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		log.Printf("cascade: deleting posts of user %s failed: %v", userID.Hex(), err)
	}

	if _, err := db.CommentsCollection.DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		log.Printf("cascade: deleting comments by user %s failed: %v", userID.Hex(), err)
	}

	edgeFilter := bson.M{"$or": []bson.M{{"follower": userID}, {"following": userID}}}
	if _, err := db.FollowersCollection.DeleteMany(ctx, edgeFilter); err != nil {
		log.Printf("cascade: deleting follow edges of user %s failed: %v", userID.Hex(), err)
	}

	res, err := db.UserCollection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	go mq.Emit(ctx, "user-deleted", models.Index{EntityType: "user", EntityId: userID.Hex(), Method: "DELETE"})
	return nil
}

// DeletePost releases the media blob, removes the post's comments, then the
// post record itself.
func DeletePost(ctx context.Context, post models.Post) error {
	filemgr.Remove(post.MediaURL)

	if _, err := db.CommentsCollection.DeleteMany(ctx, bson.M{"post": post.ID}); err != nil {
		log.Printf("cascade: deleting comments of post %s failed: %v", post.ID.Hex(), err)
	}

	res, err := db.PostsCollection.DeleteOne(ctx, bson.M{"_id": post.ID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	go mq.Emit(ctx, "post-deleted", models.Index{EntityType: "post", EntityId: post.ID.Hex(), Method: "DELETE"})
	return nil
}

// DeleteComment removes the comment record and drops its reference from the
// parent post's comment list. A missing parent post matches nothing and is
// not an error.
func DeleteComment(ctx context.Context, comment models.Comment) error {
	res, err := db.CommentsCollection.DeleteOne(ctx, bson.M{"_id": comment.ID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	if _, err := db.PostsCollection.UpdateOne(ctx,
		bson.M{"_id": comment.PostID},
		bson.M{"$pull": bson.M{"comments": comment.ID}},
	); err != nil {
		log.Printf("cascade: unlinking comment %s from post %s failed: %v", comment.ID.Hex(), comment.PostID.Hex(), err)
	}

	go mq.Emit(ctx, "comment-deleted", models.Index{EntityType: "comment", EntityId: comment.ID.Hex(), Method: "DELETE"})
	return nil
}

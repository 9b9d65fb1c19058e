package content

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pictora/db"
	"pictora/middleware"
	"pictora/models"
	"pictora/utils"
)

// Likes are a set: liking twice or unliking a not-liked post is a no-op
// that still succeeds. Both operations are single atomic document updates
// and always report the resulting like count.

func LikePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	updateLikes(w, r, ps, "$addToSet")
}

func UnlikePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	updateLikes(w, r, ps, "$pull")
}

func updateLikes(w http.ResponseWriter, r *http.Request, ps httprouter.Params, op string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("postId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var updated models.Post
	err = db.PostsCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{op: bson.M{"likes": userID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update likes")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"id":    updated.ID,
		"likes": len(updated.Likes),
	})
}

package content

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pictora/cascade"
	"pictora/db"
	"pictora/middleware"
	"pictora/models"
	"pictora/mq"
	"pictora/policy"
	"pictora/utils"
)

// CreateComment adds a comment to an existing post and links it into the
// post's comment list.
func CreateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	postID, err := primitive.ObjectIDFromHex(ps.ByName("postId"))
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

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	var post models.Post
	if err := db.PostsCollection.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	comment := models.Comment{
		UserID:    userID,
		PostID:    postID,
		Text:      body.Text,
		CreatedAt: time.Now(),
	}

	res, err := db.CommentsCollection.InsertOne(ctx, comment)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)

	if _, err := db.PostsCollection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment.ID}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to link comment")
		return
	}

	go mq.Emit(ctx, "comment-created", models.Index{EntityType: "comment", EntityId: comment.ID.Hex(), ItemId: postID.Hex(), Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, comment)
}

// UpdateComment edits a comment's text. Author or admin only.
func UpdateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("commentId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "New comment text is required")
		return
	}

	var existing models.Comment
	if err := db.CommentsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch comment")
		return
	}

	if !policy.CanMutateComment(claims.Actor(), existing.UserID.Hex()) {
		utils.RespondWithError(w, http.StatusForbidden, "You can only update your own comments")
		return
	}

	var updated models.Comment
	err = db.CommentsCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"text": body.Text}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteComment removes a comment. Allowed for its author, the owner of the
// parent post, or an admin.
func DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("commentId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var existing models.Comment
	if err := db.CommentsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch comment")
		return
	}

	// The parent post may already be gone; the post-owner rule then lapses.
	postOwnerID := ""
	var post models.Post
	err = db.PostsCollection.FindOne(ctx, bson.M{"_id": existing.PostID}).Decode(&post)
	if err == nil {
		postOwnerID = post.UserID.Hex()
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve parent post")
		return
	}

	if !policy.CanDeleteComment(claims.Actor(), existing.UserID.Hex(), postOwnerID) {
		utils.RespondWithError(w, http.StatusForbidden, "You can only delete your own comments or comments on your posts")
		return
	}

	if err := cascade.DeleteComment(ctx, existing); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Comment deleted", nil)
}

package content

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pictora/db"
	"pictora/middleware"
	"pictora/moderation"
	"pictora/models"
	"pictora/policy"
	"pictora/utils"
)

// ListApproved returns the public feed, newest first.
func ListApproved(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.PostsCollection.Find(ctx,
		bson.M{"status": models.StatusApproved},
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing posts")
		return
	}

	views, err := withAuthors(ctx, posts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing posts")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, views)
}

// PendingModeration returns the admin queue, oldest first.
func PendingModeration(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.PostsCollection.Find(ctx,
		bson.M{"status": models.StatusPending},
		options.Find().SetSort(bson.M{"createdAt": 1}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch pending posts")
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing posts")
		return
	}

	views, err := withAuthors(ctx, posts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing posts")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, views)
}

// GetPost returns one post with its comment thread. Non-approved posts are
// only visible to their owner and admins.
func GetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var post models.Post
	if err := db.PostsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	if !policy.CanViewPost(claims.Actor(), post.UserID.Hex(), post.Status) {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have access to this post")
		return
	}

	detail, err := postDetail(ctx, post)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing post")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, detail)
}

// GetSharedPost serves the public share link. Only approved posts exist
// from the outside; everything else is a 404.
func GetSharedPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("postId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	var post models.Post
	err = db.PostsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}
	if err == mongo.ErrNoDocuments || !moderation.PubliclyVisible(post.Status) {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found or not available for sharing")
		return
	}

	detail, err := postDetail(ctx, post)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing post")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, detail)
}

// SharedPostQR renders the share link of an approved post as a PNG QR code.
func SharedPostQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("postId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	var post models.Post
	err = db.PostsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}
	if err == mongo.ErrNoDocuments || !moderation.PubliclyVisible(post.Status) {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found or not available for sharing")
		return
	}

	shareURL := shareBaseURL(r) + "/api/content/shared/" + post.ID.Hex()
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func shareBaseURL(r *http.Request) string {
	if base := os.Getenv("SHARE_BASE_URL"); base != "" {
		return base
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// PostsByUser lists a user's posts, newest first. Anyone other than the
// owner or an admin only sees the approved ones.
func PostsByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("userId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := bson.M{"user": objID}
	if !claims.Actor().IsAdmin() && claims.UserID != objID.Hex() {
		filter["status"] = models.StatusApproved
	}

	cursor, err := db.PostsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user posts")
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing posts")
		return
	}

	views, err := withAuthors(ctx, posts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing posts")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, views)
}

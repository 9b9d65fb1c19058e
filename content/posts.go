package content

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pictora/cascade"
	"pictora/db"
	"pictora/filemgr"
	"pictora/middleware"
	"pictora/models"
	"pictora/mq"
	"pictora/policy"
	"pictora/utils"
)

const maxUploadBytes = 64 << 20

// UploadPost stores the media blob and creates the post, pending moderation.
func UploadPost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

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

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	filename, kind, err := filemgr.SaveMedia(file, header, filemgr.UploadDir)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported file type")
		return
	}
	locator := "/static/uploads/" + filename

	post := models.Post{
		UserID:     userID,
		MediaURL:   locator,
		MediaType:  kind,
		Caption:    r.FormValue("caption"),
		Likes:      []primitive.ObjectID{},
		Comments:   []primitive.ObjectID{},
		ShareCount: 0,
		CreatedAt:  time.Now(),
		Status:     models.StatusPending,
	}

	res, err := db.PostsCollection.InsertOne(ctx, post)
	if err != nil {
		filemgr.Remove(locator)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}
	post.ID = res.InsertedID.(primitive.ObjectID)

	go mq.Emit(ctx, "post-created", models.Index{EntityType: "post", EntityId: post.ID.Hex(), Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, post)
}

// UpdatePost edits a post's caption. Ownership or admin required; every
// other field in the input is discarded.
func UpdatePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	delete(updates, "user")
	delete(updates, "likes")
	delete(updates, "comments")
	delete(updates, "createdAt")
	delete(updates, "status")
	delete(updates, "shareCount")
	delete(updates, "mediaUrl")
	delete(updates, "mediaType")

	caption, ok := updates["caption"].(string)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
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

	if !policy.CanMutatePost(claims.Actor(), post.UserID.Hex()) {
		utils.RespondWithError(w, http.StatusForbidden, "You can only update your own posts")
		return
	}

	var updated models.Post
	err = db.PostsCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"caption": caption}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	go mq.Emit(ctx, "post-updated", models.Index{EntityType: "post", EntityId: objID.Hex(), Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeletePost removes a post and cascades to its comments and media blob.
func DeletePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
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

	if !policy.CanMutatePost(claims.Actor(), post.UserID.Hex()) {
		utils.RespondWithError(w, http.StatusForbidden, "You can only delete your own posts")
		return
	}

	if err := cascade.DeletePost(ctx, post); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Post and associated comments deleted", nil)
}

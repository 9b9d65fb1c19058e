package content

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pictora/db"
	"pictora/moderation"
	"pictora/models"
	"pictora/mq"
	"pictora/utils"
)

// ModeratePost moves a post through the moderation gate. Admin only (routes
// enforce it); the target status must be approved or rejected.
func ModeratePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("postId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	status, err := models.ParseModerationStatus(input.Status)
	if err != nil || !moderation.ValidTarget(status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid moderation status. Must be \"approved\" or \"rejected\"")
		return
	}

	var post models.Post
	if err := db.PostsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	}

	if !moderation.CanTransition(post.Status, status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid moderation transition")
		return
	}

	var updated models.Post
	err = db.PostsCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to moderate post")
		return
	}

	go mq.Emit(ctx, "post-moderated", models.Index{EntityType: "post", EntityId: objID.Hex(), ItemType: string(status), Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// Package follow manages the directed follow-edge records between users.
package follow

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
	"pictora/mq"
	"pictora/policy"
	"pictora/utils"
)

// Follow creates a follower → target edge. Self-follows are rejected, and
// the unique (follower, following) index turns a repeat follow into a
// duplicate-key error mapped to conflict.
func Follow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	targetID := ps.ByName("userId")
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	followerObjID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if !policy.CanFollow(claims.Actor(), targetID) {
		utils.RespondWithError(w, http.StatusBadRequest, "You cannot follow yourself")
		return
	}

	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": targetObjID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	edge := models.FollowEdge{
		Follower:  followerObjID,
		Following: targetObjID,
		CreatedAt: time.Now(),
	}

	res, err := db.FollowersCollection.InsertOne(ctx, edge)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "You are already following this user")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to follow user")
		return
	}
	edge.ID = res.InsertedID.(primitive.ObjectID)

	go mq.Emit(ctx, "followed", models.Index{EntityType: "follow", EntityId: claims.UserID, ItemId: targetID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, edge)
}

// Unfollow removes the edge; not following is a not-found.
func Unfollow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	targetObjID, err := primitive.ObjectIDFromHex(ps.ByName("userId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	followerObjID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err = db.FollowersCollection.FindOneAndDelete(ctx, bson.M{
		"follower":  followerObjID,
		"following": targetObjID,
	}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "You are not following this user")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unfollow user")
		return
	}

	go mq.Emit(ctx, "unfollowed", models.Index{EntityType: "follow", EntityId: claims.UserID, ItemId: targetObjID.Hex(), Method: "DELETE"})

	utils.SendResponse(w, http.StatusOK, nil, "Successfully unfollowed user", nil)
}

// GetFollowers lists the users following the given user.
func GetFollowers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listEdgeUsers(w, r, ps, "following", "follower")
}

// GetFollowing lists the users the given user follows.
func GetFollowing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listEdgeUsers(w, r, ps, "follower", "following")
}

// listEdgeUsers resolves the far end of every edge touching the user:
// matchField selects the edges, pickField names the side to return.
func listEdgeUsers(w http.ResponseWriter, r *http.Request, ps httprouter.Params, matchField, pickField string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("userId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	cursor, err := db.FollowersCollection.Find(ctx, bson.M{matchField: objID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch follow edges")
		return
	}
	defer cursor.Close(ctx)

	var edges []models.FollowEdge
	if err := cursor.All(ctx, &edges); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing follow edges")
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(edges))
	for _, e := range edges {
		if pickField == "follower" {
			userIDs = append(userIDs, e.Follower)
		} else {
			userIDs = append(userIDs, e.Following)
		}
	}

	users := []models.PublicUser{}
	if len(userIDs) > 0 {
		userCursor, err := db.UserCollection.Find(ctx,
			bson.M{"_id": bson.M{"$in": userIDs}},
			options.Find().SetProjection(bson.M{"password": 0}),
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		defer userCursor.Close(ctx)
		if err := userCursor.All(ctx, &users); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error processing users")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

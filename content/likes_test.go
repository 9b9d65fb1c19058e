package content

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"pictora/models"
)

// likeOp extracts the update document of the findAndModify command a
// like/unlike sent.
func likeOp(mt *mtest.T) bson.Raw {
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == "findAndModify" {
			return evt.Command.Lookup("update").Document()
		}
	}
	return nil
}

func TestLikePost(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("adds to the like set and reports the count", func(mt *mtest.T) {
		useMockCollections(mt)

		postID := primitive.NewObjectID()
		actorID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: postID},
			{Key: "likes", Value: bson.A{actorID}},
		}}))

		req := requestAs("POST", "/api/content/post/"+postID.Hex()+"/like", actorID.Hex(), models.RoleUser)
		rec := httptest.NewRecorder()

		LikePost(rec, req, httprouter.Params{{Key: "postId", Value: postID.Hex()}})

		assert.Equal(mt, http.StatusOK, rec.Code)
		var body struct {
			Likes int `json:"likes"`
		}
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(mt, 1, body.Likes)

		// set semantics: a repeat like must be the same $addToSet, a no-op
		op := likeOp(mt)
		require.NotNil(mt, op)
		add, err := op.LookupErr("$addToSet")
		require.NoError(mt, err)
		assert.Equal(mt, actorID, add.Document().Lookup("likes").ObjectID())
	})

	mt.Run("unlike pulls from the like set", func(mt *mtest.T) {
		useMockCollections(mt)

		postID := primitive.NewObjectID()
		actorID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: postID},
			{Key: "likes", Value: bson.A{}},
		}}))

		req := requestAs("DELETE", "/api/content/post/"+postID.Hex()+"/unlike", actorID.Hex(), models.RoleUser)
		rec := httptest.NewRecorder()

		UnlikePost(rec, req, httprouter.Params{{Key: "postId", Value: postID.Hex()}})

		assert.Equal(mt, http.StatusOK, rec.Code)
		var body struct {
			Likes int `json:"likes"`
		}
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(mt, 0, body.Likes)

		op := likeOp(mt)
		require.NotNil(mt, op)
		pull, err := op.LookupErr("$pull")
		require.NoError(mt, err)
		assert.Equal(mt, actorID, pull.Document().Lookup("likes").ObjectID())
	})

	mt.Run("absent post is a not-found", func(mt *mtest.T) {
		useMockCollections(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		postID := primitive.NewObjectID()
		req := requestAs("POST", "/api/content/post/"+postID.Hex()+"/like", primitive.NewObjectID().Hex(), models.RoleUser)
		rec := httptest.NewRecorder()

		LikePost(rec, req, httprouter.Params{{Key: "postId", Value: postID.Hex()}})

		assert.Equal(mt, http.StatusNotFound, rec.Code)
	})

	mt.Run("store failure is a server error", func(mt *mtest.T) {
		useMockCollections(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    8,
			Name:    "UnknownError",
			Message: "connection refused",
		}))

		postID := primitive.NewObjectID()
		req := requestAs("POST", "/api/content/post/"+postID.Hex()+"/like", primitive.NewObjectID().Hex(), models.RoleUser)
		rec := httptest.NewRecorder()

		LikePost(rec, req, httprouter.Params{{Key: "postId", Value: postID.Hex()}})

		assert.Equal(mt, http.StatusInternalServerError, rec.Code)
	})
}

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

func TestSharePost(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("increments and reports the counter", func(mt *mtest.T) {
		useMockCollections(mt)

		postID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: postID},
			{Key: "shareCount", Value: 3},
		}}))

		req := requestAs("POST", "/api/content/post/"+postID.Hex()+"/share", primitive.NewObjectID().Hex(), models.RoleUser)
		rec := httptest.NewRecorder()

		SharePost(rec, req, httprouter.Params{{Key: "postId", Value: postID.Hex()}})

		assert.Equal(mt, http.StatusOK, rec.Code)
		var body struct {
			ShareCount int64 `json:"shareCount"`
		}
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(mt, int64(3), body.ShareCount)

		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "findAndModify" {
				inc, err := evt.Command.Lookup("update").Document().LookupErr("$inc")
				require.NoError(mt, err)
				assert.EqualValues(mt, 1, inc.Document().Lookup("shareCount").AsInt64())
			}
		}
	})

	mt.Run("absent post is a not-found", func(mt *mtest.T) {
		useMockCollections(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		postID := primitive.NewObjectID()
		req := requestAs("POST", "/api/content/post/"+postID.Hex()+"/share", primitive.NewObjectID().Hex(), models.RoleUser)
		rec := httptest.NewRecorder()

		SharePost(rec, req, httprouter.Params{{Key: "postId", Value: postID.Hex()}})

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
		req := requestAs("POST", "/api/content/post/"+postID.Hex()+"/share", primitive.NewObjectID().Hex(), models.RoleUser)
		rec := httptest.NewRecorder()

		SharePost(rec, req, httprouter.Params{{Key: "postId", Value: postID.Hex()}})

		assert.Equal(mt, http.StatusInternalServerError, rec.Code)
	})
}

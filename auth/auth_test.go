package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"pictora/db"
)

func useMockCollections(mt *mtest.T) {
	db.UserCollection = mt.Client.Database("pictora").Collection("users")
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unique email index violation maps to conflict", func(mt *mtest.T) {
		useMockCollections(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		req := httptest.NewRequest("POST", "/api/auth/register",
			strings.NewReader(`{"email":"a@example.com","password":"hunter22"}`))
		rec := httptest.NewRecorder()

		Register(rec, req, nil)

		assert.Equal(mt, http.StatusConflict, rec.Code)
	})
}

func TestLoginUnknownVersusStoreFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown email is unauthorized", func(mt *mtest.T) {
		useMockCollections(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "pictora.users", mtest.FirstBatch))

		req := httptest.NewRequest("POST", "/api/auth/login",
			strings.NewReader(`{"email":"a@example.com","password":"hunter22"}`))
		rec := httptest.NewRecorder()

		Login(rec, req, nil)

		assert.Equal(mt, http.StatusUnauthorized, rec.Code)
	})

	mt.Run("store failure is a server error, not unauthorized", func(mt *mtest.T) {
		useMockCollections(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    8,
			Name:    "UnknownError",
			Message: "connection refused",
		}))

		req := httptest.NewRequest("POST", "/api/auth/login",
			strings.NewReader(`{"email":"a@example.com","password":"hunter22"}`))
		rec := httptest.NewRecorder()

		Login(rec, req, nil)

		assert.Equal(mt, http.StatusInternalServerError, rec.Code)
	})
}

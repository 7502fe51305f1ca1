package contact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(t, repo.Insert(ctx, &models.ContactMessage{ID: "a", ReferenceID: "MSG_20240101_ABCDEF"}))
	})

	mt.Run("insert duplicate reference", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: contact_messages index: reference_id_1",
		}))
		err := repo.Insert(ctx, &models.ContactMessage{ID: "b", ReferenceID: "MSG_20240101_ABCDEF"})
		require.ErrorIs(t, err, ErrDuplicateReference)
	})

	mt.Run("list decodes", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "m1"},
				{Key: "name", Value: "Jane"},
				{Key: "email", Value: "jane@x.io"},
				{Key: "message", Value: "Hi"},
				{Key: "inquiry_type", Value: "general"},
				{Key: "timestamp", Value: ts},
				{Key: "status", Value: "new"},
				{Key: "reference_id", Value: "MSG_20240102_0A1B2C"},
			},
		))

		msgs, err := repo.List(ctx, 50, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Equal(t, "m1", msgs[0].ID)
		require.Nil(t, msgs[0].Company)
		require.True(t, ts.Equal(msgs[0].Timestamp))
	})

	mt.Run("list empty is non-nil", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		msgs, err := repo.List(ctx, 50, 0)
		require.NoError(t, err)
		require.NotNil(t, msgs)
		require.Empty(t, msgs)
	})

	mt.Run("set status modified", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		ok, err := repo.SetStatus(ctx, "m1", models.StatusRead)
		require.NoError(t, err)
		require.True(t, ok)
	})

	mt.Run("set status unknown id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		ok, err := repo.SetStatus(ctx, "nope", models.StatusRead)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

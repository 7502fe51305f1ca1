package analytics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

// Repository provides visit persistence and aggregation.
type Repository interface {
	Insert(ctx context.Context, v *models.SiteVisit) error
	// CountByPage groups visits at or after since by page, most visited
	// first, ties broken by page ascending.
	CountByPage(ctx context.Context, since time.Time, limit int) ([]models.PageCount, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, v *models.SiteVisit) error {
	_, err := r.col.InsertOne(ctx, v)
	return err
}

func (r *MongoRepository) CountByPage(ctx context.Context, since time.Time, limit int) ([]models.PageCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$page"},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []models.PageCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

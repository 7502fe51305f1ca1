package contact

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

// ErrDuplicateReference is returned when a reference code is already taken.
var ErrDuplicateReference = errors.New("duplicate reference id")

// Repository provides contact message persistence operations.
type Repository interface {
	Insert(ctx context.Context, m *models.ContactMessage) error
	// List returns messages newest first.
	List(ctx context.Context, limit, skip int64) ([]models.ContactMessage, error)
	// SetStatus reports whether a document was modified.
	SetStatus(ctx context.Context, id, status string) (bool, error)
}

// MongoRepository implements Repository using a Mongo collection. The
// collection carries a unique index on reference_id.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, m *models.ContactMessage) error {
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateReference, err)
		}
		return err
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, limit, skip int64) ([]models.ContactMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := []models.ContactMessage{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) SetStatus(ctx context.Context, id, status string) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

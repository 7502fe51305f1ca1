package portfolio

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

// ErrDuplicateID is returned by Insert when the document already exists.
var ErrDuplicateID = errors.New("portfolio document already exists")

// Repository persists the singleton portfolio document.
type Repository interface {
	// Get returns the stored document, or (nil, nil) when there is none.
	Get(ctx context.Context) (*models.Portfolio, error)
	// Replace writes doc as a whole, creating it when absent.
	Replace(ctx context.Context, doc *models.Portfolio) error
	// Insert adds doc; it fails if a document with the same id exists.
	Insert(ctx context.Context, doc *models.Portfolio) error
	// DeleteStrays removes every document whose id is not models.PortfolioID
	// and returns how many were removed.
	DeleteStrays(ctx context.Context) (int64, error)
}

// MongoRepository implements Repository using a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Get(ctx context.Context) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := r.col.FindOne(ctx, bson.M{"_id": models.PortfolioID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) Replace(ctx context.Context, doc *models.Portfolio) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *MongoRepository) Insert(ctx context.Context, doc *models.Portfolio) error {
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateID, err)
		}
		return err
	}
	return nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) DeleteStrays(ctx context.Context) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$ne": models.PortfolioID}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

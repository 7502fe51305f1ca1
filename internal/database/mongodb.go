package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/config"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/logger"
)

// Collection names.
const (
	PortfolioCollection = "portfolio_data"
	ContactCollection   = "contact_messages"
	VisitCollection     = "site_visits"
)

// DefaultDatabase is used when no logical database name is configured.
const DefaultDatabase = "portfolio_db"

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri).SetConnectTimeout(timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Store owns the Mongo client and hands out collections of one logical
// database. It is safe for concurrent use; the driver pools connections.
type Store struct {
	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

// Open connects using cfg. An empty connection string is a configuration error.
func Open(ctx context.Context, cfg config.MongoDBConfig) (*Store, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, fmt.Errorf("mongo connection string is empty: %w", apperr.ErrConfiguration)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client, err := ConnectMongo(ctx, cfg.URI, timeout)
	if err != nil {
		return nil, err
	}
	return NewStore(client, cfg.Database), nil
}

// OpenWithRetry calls Open up to attempts times, doubling backoff after each
// failure, to tolerate the database starting after the API. Configuration
// errors are not retried.
func OpenWithRetry(ctx context.Context, cfg config.MongoDBConfig, attempts int, backoff time.Duration) (*Store, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		store, err := Open(ctx, cfg)
		if err == nil {
			return store, nil
		}
		if errors.Is(err, apperr.ErrConfiguration) {
			return nil, err
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, attempts, err)
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", attempts, lastErr)
}

// NewStore wraps an already connected client.
func NewStore(client *mongo.Client, name string) *Store {
	if name == "" {
		name = DefaultDatabase
	}
	return &Store{client: client, db: client.Database(name)}
}

// Database returns the logical database; nil after Close.
func (s *Store) Database() *mongo.Database {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Collection returns a handle for name. Repositories take their handles
// at construction, so calling it on a closed or zero Store is a programming
// error and panics.
func (s *Store) Collection(name string) *mongo.Collection {
	db := s.Database()
	if db == nil {
		panic("database: Collection(" + name + ") called on a closed Store")
	}
	return db.Collection(name)
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	if client == nil {
		return fmt.Errorf("mongo store closed: %w", apperr.ErrStorage)
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client. Calling it more than once, or on a zero
// Store, is a no-op.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client, s.db = nil, nil
	s.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

type indexSpec struct {
	collection string
	models     []mongo.IndexModel
}

func indexSpecs() []indexSpec {
	return []indexSpec{
		{PortfolioCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		}},
		{ContactCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "reference_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{VisitCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "page", Value: 1}}},
		}},
	}
}

// EnsureIndexes creates the supporting indexes. Any failure is returned; the
// caller treats it as fatal to startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, spec := range indexSpecs() {
		if _, err := s.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.collection, err)
		}
	}
	return nil
}

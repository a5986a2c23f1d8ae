package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

const mongoNamespaceExists = 48

// MongoDB is the document-store counterpart of DB. The client is connected
// lazily on the first Collection call and reused for the process lifetime.
type MongoDB struct {
	uri            string
	name           string
	connectTimeout time.Duration

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(uri, name string, connectTimeout time.Duration) *MongoDB {
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	return &MongoDB{uri: uri, name: name, connectTimeout: connectTimeout}
}

// Collection returns a handle to one of the gateway's named collections.
func (m *MongoDB) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	if !IsKnownCollection(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	db, err := m.handle(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (m *MongoDB) handle(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.uri).
		SetConnectTimeout(m.connectTimeout).
		SetServerSelectionTimeout(m.connectTimeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db := client.Database(m.name)
	if err := ensureMongoSchema(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, MongoClassify(err)
	}

	m.client = client
	m.db = db
	return db, nil
}

func ensureMongoSchema(ctx context.Context, db *mongo.Database) error {
	collections := db.Collection(CollectionCollections)

	_, err := collections.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "votes", Value: -1}, {Key: "lastVoteUpdate", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection indexes: %w", err)
	}

	// votes is a read-only view over collections; counters live only there.
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "itemType", Value: 1},
			{Key: "name", Value: 1},
			{Key: "votes", Value: 1},
			{Key: "lastVoteUpdate", Value: 1},
		}}},
	}
	err = db.CreateView(ctx, CollectionVotes, CollectionCollections, pipeline)
	var cmdErr mongo.CommandError
	if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Code == mongoNamespaceExists) {
		return fmt.Errorf("create votes view: %w", err)
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

// MongoClassify is Classify for driver errors.
func MongoClassify(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	var selectionErr topology.ServerSelectionError
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.As(err, &selectionErr) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

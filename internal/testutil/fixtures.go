package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/fanmint-api/internal/database"
	"github.com/dimitrije/fanmint-api/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionOption configures a test collection
type CollectionOption func(*models.Collection)

func WithItemType(itemType string) CollectionOption {
	return func(c *models.Collection) { c.ItemType = itemType }
}

// WithVotes seeds a vote count together with the matching voter set
func WithVotes(votes int, lastVote time.Time) CollectionOption {
	return func(c *models.Collection) {
		c.Votes = votes
		c.VotedBy = make([]string, votes)
		for i := range c.VotedBy {
			c.VotedBy[i] = fmt.Sprintf("0xseed%04d", i)
		}
		c.LastVoteUpdate = &lastVote
	}
}

func WithVotedBy(wallets ...string) CollectionOption {
	return func(c *models.Collection) {
		c.VotedBy = wallets
		c.Votes = len(wallets)
	}
}

func newCollection(name string, opts []CollectionOption) *models.Collection {
	c := &models.Collection{
		ID:       uuid.NewString(),
		Name:     name,
		ItemType: models.ItemTypeCollection,
		VotedBy:  []string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db *database.DB
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateCollection inserts a collection row
func (f *Fixtures) CreateCollection(t *testing.T, name string, opts ...CollectionOption) *models.Collection {
	t.Helper()
	c := newCollection(name, opts)

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (id, name, item_type, votes, voted_by, last_vote_update)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, c.ID, c.Name, c.ItemType, c.Votes, c.VotedBy, c.LastVoteUpdate).Scan(&c.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}
	return c
}

// MongoFixtures is Fixtures for the document store
type MongoFixtures struct {
	db *database.MongoDB
}

func NewMongoFixtures(db *database.MongoDB) *MongoFixtures {
	return &MongoFixtures{db: db}
}

// CreateCollection inserts a collection document
func (f *MongoFixtures) CreateCollection(t *testing.T, name string, opts ...CollectionOption) *models.Collection {
	t.Helper()
	c := newCollection(name, opts)
	c.CreatedAt = time.Now().UTC()

	// Collections written by other tools carry ObjectId keys.
	oid := primitive.NewObjectID()
	c.ID = oid.Hex()

	ctx := context.Background()
	coll, err := f.db.Collection(ctx, database.CollectionCollections)
	if err != nil {
		t.Fatalf("failed to get collections handle: %v", err)
	}

	doc := bson.M{
		"_id":        oid,
		"name":       c.Name,
		"itemType":   c.ItemType,
		"votes":      c.Votes,
		"votedBy":    c.VotedBy,
		"isFeatured": c.IsFeatured,
		"createdAt":  c.CreatedAt,
	}
	if c.LastVoteUpdate != nil {
		doc["lastVoteUpdate"] = *c.LastVoteUpdate
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}
	return c
}

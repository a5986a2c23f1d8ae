package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dimitrije/fanmint-api/internal/database"
	"github.com/dimitrije/fanmint-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionDocument struct {
	ID                bson.RawValue `bson:"_id"`
	Name              string        `bson:"name"`
	ItemType          string        `bson:"itemType,omitempty"`
	Votes             int           `bson:"votes"`
	VotedBy           []string      `bson:"votedBy"`
	IsFeatured        bool          `bson:"isFeatured"`
	LastVoteUpdate    *time.Time    `bson:"lastVoteUpdate,omitempty"`
	FeaturedUpdatedAt *time.Time    `bson:"featuredUpdatedAt,omitempty"`
	CreatedAt         time.Time     `bson:"createdAt"`
}

func (d *collectionDocument) toModel() *models.Collection {
	itemType := d.ItemType
	if itemType == "" {
		itemType = models.ItemTypeCollection
	}
	return &models.Collection{
		ID:                documentID(d.ID),
		Name:              d.Name,
		ItemType:          itemType,
		Votes:             d.Votes,
		VotedBy:           d.VotedBy,
		IsFeatured:        d.IsFeatured,
		LastVoteUpdate:    d.LastVoteUpdate,
		FeaturedUpdatedAt: d.FeaturedUpdatedAt,
		CreatedAt:         d.CreatedAt,
	}
}

// MongoCollectionService is the document-store implementation of the
// collection operations.
type MongoCollectionService struct {
	db *database.MongoDB
}

func NewMongoCollectionService(db *database.MongoDB) *MongoCollectionService {
	return &MongoCollectionService{db: db}
}

func (s *MongoCollectionService) collections(ctx context.Context) (*mongo.Collection, error) {
	return s.db.Collection(ctx, database.CollectionCollections)
}

func (s *MongoCollectionService) GetByName(ctx context.Context, name string) (*models.Collection, error) {
	if err := requireField("name", name); err != nil {
		return nil, err
	}

	coll, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}

	var doc collectionDocument
	err = coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, database.MongoClassify(err)
	}
	return doc.toModel(), nil
}

func (s *MongoCollectionService) CastVote(ctx context.Context, name, wallet string) (*models.VoteResult, error) {
	if err := requireField("collectionName", name); err != nil {
		return nil, err
	}
	if err := requireField("walletAddress", wallet); err != nil {
		return nil, err
	}
	wallet = NormalizeWallet(wallet)

	coll, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"name":    name,
		"votedBy": bson.M{"$not": walletPattern(wallet)},
	}
	update := bson.M{
		"$addToSet": bson.M{"votedBy": wallet},
		"$inc":      bson.M{"votes": 1},
		"$set":      bson.M{"lastVoteUpdate": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"votes": 1})

	var doc struct {
		Votes int `bson:"votes"`
	}
	err = coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return &models.VoteResult{Accepted: true, Votes: doc.Votes}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.MongoClassify(err)
	}

	err = coll.FindOne(ctx, bson.M{"name": name}, options.FindOne().SetProjection(bson.M{"votes": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, database.MongoClassify(err)
	}
	return &models.VoteResult{Accepted: false, Votes: doc.Votes}, nil
}

func (s *MongoCollectionService) HasVoted(ctx context.Context, name, wallet string) (bool, int, error) {
	if err := requireField("collectionName", name); err != nil {
		return false, 0, err
	}
	if err := requireField("walletAddress", wallet); err != nil {
		return false, 0, err
	}

	col, err := s.GetByName(ctx, name)
	if err != nil {
		return false, 0, err
	}
	return containsWallet(col.VotedBy, wallet), col.Votes, nil
}

func (s *MongoCollectionService) SetFeatured(ctx context.Context, name string, featured bool) (*models.FeatureResult, error) {
	if err := requireField("collectionName", name); err != nil {
		return nil, err
	}

	coll, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"isFeatured":        featured,
			"featuredUpdatedAt": now,
		},
		"$setOnInsert": bson.M{
			"itemType":  models.ItemTypeCollection,
			"votes":     0,
			"votedBy":   bson.A{},
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"isFeatured": 1})

	var prev struct {
		IsFeatured *bool `bson:"isFeatured"`
	}
	err = coll.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&prev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return featureResult(true, nil, featured), nil
	}
	if err != nil {
		return nil, database.MongoClassify(err)
	}
	return featureResult(false, prev.IsFeatured, featured), nil
}

func (s *MongoCollectionService) MostVoted(ctx context.Context, itemType string) (*models.VoteRecord, error) {
	votes, err := s.db.Collection(ctx, database.CollectionVotes)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"votes": bson.M{"$gt": 0}}
	if itemType != "" {
		filter["itemType"] = itemType
	}
	opts := options.FindOne().SetSort(bson.D{
		{Key: "votes", Value: -1},
		{Key: "lastVoteUpdate", Value: -1},
		{Key: "name", Value: 1},
	})

	var doc collectionDocument
	err = votes.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoVotedItems
	}
	if err != nil {
		return nil, database.MongoClassify(err)
	}

	col := doc.toModel()
	return &models.VoteRecord{
		ItemID:         col.ID,
		ItemType:       col.ItemType,
		ItemName:       col.Name,
		Votes:          col.Votes,
		LastVoteUpdate: col.LastVoteUpdate,
	}, nil
}

func (s *MongoCollectionService) ListFeatured(ctx context.Context) ([]models.Collection, error) {
	coll, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "featuredUpdatedAt", Value: -1},
		{Key: "name", Value: 1},
	})
	cursor, err := coll.Find(ctx, bson.M{"isFeatured": true}, opts)
	if err != nil {
		return nil, database.MongoClassify(err)
	}
	defer cursor.Close(ctx)

	var docs []collectionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, database.MongoClassify(err)
	}

	collections := make([]models.Collection, 0, len(docs))
	for i := range docs {
		collections = append(collections, *docs[i].toModel())
	}
	return collections, nil
}

// documentID renders _id as an opaque string. Collections created by other
// writers usually carry an ObjectId; ours may carry a string.
func documentID(raw bson.RawValue) string {
	switch raw.Type {
	case bsontype.ObjectID:
		return raw.ObjectID().Hex()
	case bsontype.String:
		return raw.StringValue()
	case 0:
		return ""
	default:
		return strings.Trim(raw.String(), `"`)
	}
}

// walletPattern matches an array element equal to wallet ignoring case.
func walletPattern(wallet string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(wallet) + "$", Options: "i"}
}

func containsWallet(votedBy []string, wallet string) bool {
	wallet = NormalizeWallet(wallet)
	for _, v := range votedBy {
		if strings.EqualFold(strings.TrimSpace(v), wallet) {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/fanmint-api/internal/database"
	"github.com/dimitrije/fanmint-api/internal/models"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrNoVotedItems       = errors.New("no voted items found")
)

const collectionColumns = `id::text, name, item_type, votes, voted_by, is_featured, last_vote_update, featured_updated_at, created_at`

type CollectionService struct {
	db *database.DB
}

func NewCollectionService(db *database.DB) *CollectionService {
	return &CollectionService{db: db}
}

func (s *CollectionService) collections(ctx context.Context) (database.Pool, error) {
	return s.db.Collection(ctx, database.CollectionCollections)
}

func (s *CollectionService) GetByName(ctx context.Context, name string) (*models.Collection, error) {
	if err := requireField("name", name); err != nil {
		return nil, err
	}

	pool, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}

	var c models.Collection
	err = pool.QueryRow(ctx, `
		SELECT `+collectionColumns+`
		FROM collections WHERE name = $1
	`, name).Scan(
		&c.ID, &c.Name, &c.ItemType, &c.Votes, &c.VotedBy, &c.IsFeatured,
		&c.LastVoteUpdate, &c.FeaturedUpdatedAt, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	return &c, nil
}

// CastVote records one vote per wallet per collection. The membership check,
// the append and the increment happen in a single UPDATE so concurrent votes
// can neither double count a wallet nor lose an increment.
func (s *CollectionService) CastVote(ctx context.Context, name, wallet string) (*models.VoteResult, error) {
	if err := requireField("collectionName", name); err != nil {
		return nil, err
	}
	if err := requireField("walletAddress", wallet); err != nil {
		return nil, err
	}
	wallet = NormalizeWallet(wallet)

	pool, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}

	var votes int
	err = pool.QueryRow(ctx, `
		UPDATE collections
		SET votes = votes + 1, voted_by = array_append(voted_by, $2), last_vote_update = NOW()
		WHERE name = $1 AND NOT EXISTS (SELECT 1 FROM unnest(voted_by) AS v WHERE lower(v) = $2)
		RETURNING votes
	`, name, wallet).Scan(&votes)
	if err == nil {
		return &models.VoteResult{Accepted: true, Votes: votes}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, database.Classify(err)
	}

	// Either the collection is missing or this wallet already voted.
	err = pool.QueryRow(ctx, `SELECT votes FROM collections WHERE name = $1`, name).Scan(&votes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	return &models.VoteResult{Accepted: false, Votes: votes}, nil
}

func (s *CollectionService) HasVoted(ctx context.Context, name, wallet string) (bool, int, error) {
	if err := requireField("collectionName", name); err != nil {
		return false, 0, err
	}
	if err := requireField("walletAddress", wallet); err != nil {
		return false, 0, err
	}

	pool, err := s.collections(ctx)
	if err != nil {
		return false, 0, err
	}

	var votes int
	var voted bool
	err = pool.QueryRow(ctx, `
		SELECT votes, EXISTS (SELECT 1 FROM unnest(voted_by) AS v WHERE lower(v) = $2)
		FROM collections WHERE name = $1
	`, name, NormalizeWallet(wallet)).Scan(&votes, &voted)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, 0, ErrCollectionNotFound
	}
	if err != nil {
		return false, 0, database.Classify(err)
	}
	return voted, votes, nil
}

// SetFeatured upserts the featured flag. A missing collection is created with
// zero votes. featured_updated_at is refreshed on every call.
func (s *CollectionService) SetFeatured(ctx context.Context, name string, featured bool) (*models.FeatureResult, error) {
	if err := requireField("collectionName", name); err != nil {
		return nil, err
	}

	pool, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}

	var inserted bool
	var previous *bool
	err = pool.QueryRow(ctx, `
		WITH prev AS (SELECT is_featured FROM collections WHERE name = $1)
		INSERT INTO collections (name, is_featured, featured_updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET is_featured = EXCLUDED.is_featured, featured_updated_at = EXCLUDED.featured_updated_at
		RETURNING (xmax = 0), (SELECT is_featured FROM prev)
	`, name, featured).Scan(&inserted, &previous)
	if err != nil {
		return nil, database.Classify(err)
	}

	return featureResult(inserted, previous, featured), nil
}

func (s *CollectionService) MostVoted(ctx context.Context, itemType string) (*models.VoteRecord, error) {
	pool, err := s.db.Collection(ctx, database.CollectionVotes)
	if err != nil {
		return nil, err
	}

	query := `SELECT item_id::text, item_type, item_name, votes, last_vote_update FROM votes WHERE votes > 0`
	var args []any
	if itemType != "" {
		query += ` AND item_type = $1`
		args = append(args, itemType)
	}
	query += ` ORDER BY votes DESC, last_vote_update DESC NULLS LAST, item_name ASC LIMIT 1`

	var r models.VoteRecord
	err = pool.QueryRow(ctx, query, args...).Scan(
		&r.ItemID, &r.ItemType, &r.ItemName, &r.Votes, &r.LastVoteUpdate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoVotedItems
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	return &r, nil
}

func (s *CollectionService) ListFeatured(ctx context.Context) ([]models.Collection, error) {
	pool, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT `+collectionColumns+`
		FROM collections WHERE is_featured
		ORDER BY featured_updated_at DESC NULLS LAST, name ASC
	`)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(
			&c.ID, &c.Name, &c.ItemType, &c.Votes, &c.VotedBy, &c.IsFeatured,
			&c.LastVoteUpdate, &c.FeaturedUpdatedAt, &c.CreatedAt,
		); err != nil {
			return nil, database.Classify(err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return collections, nil
}

// NormalizeWallet is the canonical form wallets are stored and compared in.
func NormalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}

func requireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

func featureResult(inserted bool, previous *bool, featured bool) *models.FeatureResult {
	if inserted {
		return &models.FeatureResult{Upserted: 1}
	}
	result := &models.FeatureResult{Matched: 1}
	if previous == nil || *previous != featured {
		result.Modified = 1
	}
	return result
}

//go:build integration

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dimitrije/fanmint-api/internal/models"
	"github.com/dimitrije/fanmint-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupPostgres(t *testing.T) (*CollectionService, *testutil.Fixtures) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	tdb := testutil.SetupTestDB(t)
	return NewCollectionService(tdb.DB), testutil.NewFixtures(tdb.DB)
}

func TestCollectionService_Integration_VoteOncePerWallet(t *testing.T) {
	svc, fixtures := setupPostgres(t)
	ctx := context.Background()

	seeded := fixtures.CreateCollection(t, "Home Kit 2026")

	first, err := svc.CastVote(ctx, "Home Kit 2026", "0xAbC")
	require.NoError(t, err)
	assert.True(t, first.Accepted)
	assert.Equal(t, 1, first.Votes)

	second, err := svc.CastVote(ctx, "Home Kit 2026", "0xabc")
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.Equal(t, 1, second.Votes)

	voted, votes, err := svc.HasVoted(ctx, "Home Kit 2026", "0XABC")
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, 1, votes)

	col, err := svc.GetByName(ctx, "Home Kit 2026")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, col.ID)
	assert.Equal(t, []string{"0xabc"}, col.VotedBy)
	require.NotNil(t, col.LastVoteUpdate)
}

func TestCollectionService_Integration_VoteMatchesLegacyMixedCaseWallet(t *testing.T) {
	svc, fixtures := setupPostgres(t)
	ctx := context.Background()

	fixtures.CreateCollection(t, "Retro 98", testutil.WithVotedBy("0xDEADbeef"))

	result, err := svc.CastVote(ctx, "Retro 98", "0xdeadBEEF")
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, 1, result.Votes)
}

func TestCollectionService_Integration_VoteUnknownCollection(t *testing.T) {
	svc, _ := setupPostgres(t)

	_, err := svc.CastVote(context.Background(), "Ghost", "0xabc")
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	_, _, err = svc.HasVoted(context.Background(), "Ghost", "0xabc")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestCollectionService_Integration_ConcurrentVotes(t *testing.T) {
	svc, fixtures := setupPostgres(t)
	ctx := context.Background()

	fixtures.CreateCollection(t, "Derby Day")

	var accepted atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 20; i++ {
		wallet := fmt.Sprintf("0xwallet%02d", i)
		g.Go(func() error {
			_, err := svc.CastVote(gctx, "Derby Day", wallet)
			return err
		})
	}
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			result, err := svc.CastVote(gctx, "Derby Day", "0xSAME")
			if err == nil && result.Accepted {
				accepted.Add(1)
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), accepted.Load())

	col, err := svc.GetByName(ctx, "Derby Day")
	require.NoError(t, err)
	assert.Equal(t, 21, col.Votes)
	assert.Len(t, col.VotedBy, 21)
}

func TestCollectionService_Integration_MostVotedTieBreak(t *testing.T) {
	svc, fixtures := setupPostgres(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixtures.CreateCollection(t, "A", testutil.WithVotes(5, base.Add(10*time.Second)))
	fixtures.CreateCollection(t, "B", testutil.WithVotes(5, base.Add(20*time.Second)))
	fixtures.CreateCollection(t, "C", testutil.WithVotes(3, base.Add(30*time.Second)))

	record, err := svc.MostVoted(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "B", record.ItemName)
	assert.Equal(t, 5, record.Votes)
}

func TestCollectionService_Integration_MostVotedByItemType(t *testing.T) {
	svc, fixtures := setupPostgres(t)
	ctx := context.Background()

	now := time.Now().UTC()
	fixtures.CreateCollection(t, "Home Kit 2026", testutil.WithVotes(9, now))
	fixtures.CreateCollection(t, "North Stand", testutil.WithItemType(models.ItemTypeStadium), testutil.WithVotes(2, now))

	record, err := svc.MostVoted(ctx, models.ItemTypeStadium)
	require.NoError(t, err)
	assert.Equal(t, "North Stand", record.ItemName)
	assert.Equal(t, models.ItemTypeStadium, record.ItemType)

	_, err = svc.MostVoted(ctx, models.ItemTypeBadge)
	assert.ErrorIs(t, err, ErrNoVotedItems)
}

func TestCollectionService_Integration_MostVotedEmpty(t *testing.T) {
	svc, fixtures := setupPostgres(t)

	fixtures.CreateCollection(t, "Unloved")

	_, err := svc.MostVoted(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoVotedItems)
}

func TestCollectionService_Integration_SetFeatured(t *testing.T) {
	svc, fixtures := setupPostgres(t)
	ctx := context.Background()

	seeded := fixtures.CreateCollection(t, "Away Kit")

	result, err := svc.SetFeatured(ctx, "Away Kit", true)
	require.NoError(t, err)
	assert.Equal(t, models.FeatureResult{Matched: 1, Modified: 1}, *result)

	first, err := svc.GetByName(ctx, "Away Kit")
	require.NoError(t, err)
	require.NotNil(t, first.FeaturedUpdatedAt)

	time.Sleep(5 * time.Millisecond)

	result, err = svc.SetFeatured(ctx, "Away Kit", true)
	require.NoError(t, err)
	assert.Equal(t, models.FeatureResult{Matched: 1, Modified: 0}, *result)

	featured, err := svc.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Away Kit", featured[0].Name)
	assert.Equal(t, seeded.ID, featured[0].ID)
	require.NotNil(t, featured[0].FeaturedUpdatedAt)
	assert.True(t, featured[0].FeaturedUpdatedAt.After(*first.FeaturedUpdatedAt),
		"featuredUpdatedAt should advance on an unchanged toggle")
}

func TestCollectionService_Integration_SetFeaturedUpserts(t *testing.T) {
	svc, _ := setupPostgres(t)
	ctx := context.Background()

	result, err := svc.SetFeatured(ctx, "New Drop", true)
	require.NoError(t, err)
	assert.Equal(t, models.FeatureResult{Upserted: 1}, *result)

	col, err := svc.GetByName(ctx, "New Drop")
	require.NoError(t, err)
	assert.True(t, col.IsFeatured)
	assert.Equal(t, 0, col.Votes)
	assert.Empty(t, col.VotedBy)
	assert.Equal(t, models.ItemTypeCollection, col.ItemType)
}

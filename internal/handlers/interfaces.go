package handlers

import (
	"context"

	"github.com/dimitrije/fanmint-api/internal/models"
	"github.com/dimitrije/fanmint-api/internal/sse"
)

// CollectionServiceInterface is implemented by both storage backends.
type CollectionServiceInterface interface {
	GetByName(ctx context.Context, name string) (*models.Collection, error)
	CastVote(ctx context.Context, name, wallet string) (*models.VoteResult, error)
	HasVoted(ctx context.Context, name, wallet string) (bool, int, error)
	SetFeatured(ctx context.Context, name string, featured bool) (*models.FeatureResult, error)
	MostVoted(ctx context.Context, itemType string) (*models.VoteRecord, error)
	ListFeatured(ctx context.Context) ([]models.Collection, error)
}

// HubInterface defines the methods used by handlers from the SSE hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	Subscribe(clientID, collectionName string)
	Unsubscribe(clientID, collectionName string)
	BroadcastVoteCast(collectionName string, votes int)
	BroadcastFeatured(collectionName string, featured bool)
}

package testutil

import (
	"context"

	"github.com/dimitrije/fanmint-api/internal/models"
	"github.com/dimitrije/fanmint-api/internal/sse"
	"github.com/stretchr/testify/mock"
)

// MockCollectionService mocks the collection operations of either backend
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) GetByName(ctx context.Context, name string) (*models.Collection, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) CastVote(ctx context.Context, name, wallet string) (*models.VoteResult, error) {
	args := m.Called(ctx, name, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteResult), args.Error(1)
}

func (m *MockCollectionService) HasVoted(ctx context.Context, name, wallet string) (bool, int, error) {
	args := m.Called(ctx, name, wallet)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockCollectionService) SetFeatured(ctx context.Context, name string, featured bool) (*models.FeatureResult, error) {
	args := m.Called(ctx, name, featured)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeatureResult), args.Error(1)
}

func (m *MockCollectionService) MostVoted(ctx context.Context, itemType string) (*models.VoteRecord, error) {
	args := m.Called(ctx, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteRecord), args.Error(1)
}

func (m *MockCollectionService) ListFeatured(ctx context.Context) ([]models.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

// MockHub mocks the SSE hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) Subscribe(clientID, collectionName string) {
	m.Called(clientID, collectionName)
}

func (m *MockHub) Unsubscribe(clientID, collectionName string) {
	m.Called(clientID, collectionName)
}

func (m *MockHub) BroadcastVoteCast(collectionName string, votes int) {
	m.Called(collectionName, votes)
}

func (m *MockHub) BroadcastFeatured(collectionName string, featured bool) {
	m.Called(collectionName, featured)
}

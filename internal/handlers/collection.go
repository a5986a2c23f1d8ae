package handlers

import (
	"net/http"
	"strings"

	"github.com/dimitrije/fanmint-api/internal/logger"
	"github.com/dimitrije/fanmint-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type CollectionHandler struct {
	collectionService CollectionServiceInterface
	hub               HubInterface
}

func NewCollectionHandler(collectionService CollectionServiceInterface, hub HubInterface) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		hub:               hub,
	}
}

func (h *CollectionHandler) GetByName(c *drift.Context) {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}

	collection, err := h.collectionService.GetByName(c.Request.Context(), name)
	if err != nil {
		failWith(c, err, "failed to get collection")
		return
	}

	_ = c.JSON(http.StatusOK, dto.CollectionResponse{
		Success:        true,
		ID:             collection.ID,
		Name:           collection.Name,
		Votes:          collection.Votes,
		IsFeatured:     collection.IsFeatured,
		LastVoteUpdate: collection.LastVoteUpdate,
	})
}

func (h *CollectionHandler) ListFeatured(c *drift.Context) {
	collections, err := h.collectionService.ListFeatured(c.Request.Context())
	if err != nil {
		failWith(c, err, "failed to list featured collections")
		return
	}

	data := make([]dto.CollectionSummary, len(collections))
	for i, col := range collections {
		data[i] = dto.CollectionSummary{
			ID:                col.ID,
			Name:              col.Name,
			ItemType:          col.ItemType,
			Votes:             col.Votes,
			IsFeatured:        col.IsFeatured,
			FeaturedUpdatedAt: col.FeaturedUpdatedAt,
		}
	}

	_ = c.JSON(http.StatusOK, dto.FeaturedListResponse{Success: true, Data: data})
}

func (h *CollectionHandler) SetFeatured(c *drift.Context) {
	var req dto.FeatureRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.CollectionName)
	if name == "" {
		fail(c, http.StatusBadRequest, "collectionName is required")
		return
	}
	if req.Featured == nil {
		fail(c, http.StatusBadRequest, "featured must be a boolean")
		return
	}

	result, err := h.collectionService.SetFeatured(c.Request.Context(), name, *req.Featured)
	if err != nil {
		failWith(c, err, "failed to update featured status")
		return
	}

	logger.L.Info("collection featured status set",
		zap.String("collection", name),
		zap.Bool("featured", *req.Featured),
		zap.Int("upserted", result.Upserted),
	)
	h.hub.BroadcastFeatured(name, *req.Featured)

	_ = c.JSON(http.StatusOK, dto.FeatureResponse{
		Success:        true,
		CollectionName: name,
		Featured:       *req.Featured,
		Matched:        result.Matched,
		Modified:       result.Modified,
		Upserted:       result.Upserted,
	})
}

func (h *CollectionHandler) CastVote(c *drift.Context) {
	var req dto.VoteRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.CollectionName)
	if name == "" {
		fail(c, http.StatusBadRequest, "collectionName is required")
		return
	}
	if strings.TrimSpace(req.WalletAddress) == "" {
		fail(c, http.StatusBadRequest, "walletAddress is required")
		return
	}

	result, err := h.collectionService.CastVote(c.Request.Context(), name, req.WalletAddress)
	if err != nil {
		failWith(c, err, "failed to cast vote")
		return
	}

	if result.Accepted {
		h.hub.BroadcastVoteCast(name, result.Votes)
	}

	_ = c.JSON(http.StatusOK, dto.VoteResponse{
		Success:  true,
		Accepted: result.Accepted,
		Votes:    result.Votes,
	})
}

func (h *CollectionHandler) VoteStatus(c *drift.Context) {
	name := strings.TrimSpace(c.QueryParam("collectionName"))
	wallet := strings.TrimSpace(c.QueryParam("walletAddress"))
	if name == "" || wallet == "" {
		fail(c, http.StatusBadRequest, "collectionName and walletAddress are required")
		return
	}

	voted, votes, err := h.collectionService.HasVoted(c.Request.Context(), name, wallet)
	if err != nil {
		failWith(c, err, "failed to check vote status")
		return
	}

	_ = c.JSON(http.StatusOK, dto.VoteStatusResponse{
		Success:   true,
		UserVoted: voted,
		Votes:     votes,
	})
}

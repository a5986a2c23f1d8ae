package handlers

import (
	"net/http"
	"strings"

	"github.com/dimitrije/fanmint-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type VoteHandler struct {
	collectionService CollectionServiceInterface
}

func NewVoteHandler(collectionService CollectionServiceInterface) *VoteHandler {
	return &VoteHandler{collectionService: collectionService}
}

func (h *VoteHandler) MostVoted(c *drift.Context) {
	itemType := strings.TrimSpace(c.QueryParam("itemType"))

	record, err := h.collectionService.MostVoted(c.Request.Context(), itemType)
	if err != nil {
		failWith(c, err, "failed to get most voted item")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MostVotedResponse{
		Success: true,
		Data: dto.VoteRecord{
			ItemID:         record.ItemID,
			ItemType:       record.ItemType,
			ItemName:       record.ItemName,
			Votes:          record.Votes,
			LastVoteUpdate: record.LastVoteUpdate,
		},
	})
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dimitrije/fanmint-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SSEHandler struct {
	hub HubInterface
}

func NewSSEHandler(hub HubInterface) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Connect streams vote and feature events for one collection.
func (h *SSEHandler) Connect(c *drift.Context) {
	name := strings.TrimSpace(c.QueryParam("collectionName"))
	if name == "" {
		fail(c, http.StatusBadRequest, "collectionName is required")
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:          clientID,
		Collections: map[string]bool{name: true},
		Send:        make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	clientID, name, ok := subscriptionParams(c)
	if !ok {
		return
	}

	h.hub.Subscribe(clientID, name)

	_ = c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("subscribed to collection %s", name),
	})
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	clientID, name, ok := subscriptionParams(c)
	if !ok {
		return
	}

	h.hub.Unsubscribe(clientID, name)

	_ = c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("unsubscribed from collection %s", name),
	})
}

func subscriptionParams(c *drift.Context) (string, string, bool) {
	clientID := c.Param("clientId")
	if clientID == "" {
		fail(c, http.StatusBadRequest, "client_id is required")
		return "", "", false
	}

	name := strings.TrimSpace(c.QueryParam("collectionName"))
	if name == "" {
		fail(c, http.StatusBadRequest, "collectionName is required")
		return "", "", false
	}
	return clientID, name, true
}

package sse

import (
	"encoding/json"
	"sync"
)

const (
	EventVoteCast           = "vote_cast"
	EventCollectionFeatured = "collection_featured"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type VoteCastEvent struct {
	CollectionName string `json:"collection_name"`
	Votes          int    `json:"votes"`
}

type CollectionFeaturedEvent struct {
	CollectionName string `json:"collection_name"`
	Featured       bool   `json:"featured"`
}

type Client struct {
	ID          string
	Collections map[string]bool
	Send        chan []byte
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *CollectionMessage
	mu         sync.RWMutex
}

type CollectionMessage struct {
	CollectionName string
	Event          Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *CollectionMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.Collections[msg.CollectionName] {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) Subscribe(clientID, collectionName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Collections[collectionName] = true
	}
}

func (h *Hub) Unsubscribe(clientID, collectionName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Collections, collectionName)
	}
}

func (h *Hub) BroadcastVoteCast(collectionName string, votes int) {
	h.publish(&CollectionMessage{
		CollectionName: collectionName,
		Event: Event{
			Type: EventVoteCast,
			Data: VoteCastEvent{CollectionName: collectionName, Votes: votes},
		},
	})
}

func (h *Hub) BroadcastFeatured(collectionName string, featured bool) {
	h.publish(&CollectionMessage{
		CollectionName: collectionName,
		Event: Event{
			Type: EventCollectionFeatured,
			Data: CollectionFeaturedEvent{CollectionName: collectionName, Featured: featured},
		},
	})
}

// publish never blocks the caller; events are dropped when the queue is full.
func (h *Hub) publish(msg *CollectionMessage) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

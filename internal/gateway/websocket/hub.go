// Package websocket serves /ws: live board notifications and a small request
// surface for clients that prefer one socket over REST.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	ws "github.com/MohammadOTaha/side-planner/pkg/websocket"
)

// BoardAuthorizer reports whether ownerID may watch boardID. It returns an
// error wrapping the board service's not-found error for foreign boards.
type BoardAuthorizer func(ctx context.Context, ownerID, boardID string) error

// Hub tracks connected clients and which boards each one watches.
type Hub struct {
	clients          map[*Client]bool
	boardSubscribers map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	dispatcher *ws.Dispatcher
	authorize  BoardAuthorizer

	mu     sync.RWMutex
	logger *logger.Logger
}

func NewHub(dispatcher *ws.Dispatcher, authorize BoardAuthorizer, log *logger.Logger) *Hub {
	return &Hub{
		clients:          make(map[*Client]bool),
		boardSubscribers: make(map[string]map[*Client]bool),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		done:             make(chan struct{}),
		dispatcher:       dispatcher,
		authorize:        authorize,
		logger:           log.WithFields(zap.String("component", "ws_hub")),
	}
}

// Run processes registrations until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")
	defer h.logger.Info("WebSocket hub stopped")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("Client registered",
				zap.String("client_id", client.ID),
				zap.String("owner_id", client.ownerID))

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}
	h.boardSubscribers = make(map[string]map[*Client]bool)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.closeSend()

	for boardID := range client.subscriptions {
		h.dropSubscriber(boardID, client)
	}
	h.logger.Debug("Client unregistered", zap.String("client_id", client.ID))
}

// dropSubscriber must be called with h.mu held.
func (h *Hub) dropSubscriber(boardID string, client *Client) {
	if clients, ok := h.boardSubscribers[boardID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.boardSubscribers, boardID)
		}
	}
}

// Register adds client to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToOwner sends msg to every connection opened by ownerID,
// whatever boards they watch.
func (h *Hub) BroadcastToOwner(ownerID string, msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.ownerID == ownerID {
			client.enqueue(data)
		}
	}
}

// BroadcastToBoard sends msg to the clients watching boardID.
func (h *Hub) BroadcastToBoard(boardID string, msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.boardSubscribers[boardID] {
		client.enqueue(data)
	}
}

// SubscribeToBoard adds client to the watchers of boardID.
func (h *Hub) SubscribeToBoard(client *Client, boardID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	if _, ok := h.boardSubscribers[boardID]; !ok {
		h.boardSubscribers[boardID] = make(map[*Client]bool)
	}
	h.boardSubscribers[boardID][client] = true
	client.subscriptions[boardID] = true

	h.logger.Debug("Client subscribed to board",
		zap.String("client_id", client.ID),
		zap.String("board_id", boardID))
}

func (h *Hub) UnsubscribeFromBoard(client *Client, boardID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(client.subscriptions, boardID)
	h.dropSubscriber(boardID, client)
}

// DropBoard forgets every subscription to boardID, used once the board is gone.
func (h *Hub) DropBoard(boardID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.boardSubscribers[boardID] {
		delete(client.subscriptions, boardID)
	}
	delete(h.boardSubscribers, boardID)
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// subscriberCount returns how many clients watch boardID.
func (h *Hub) subscriberCount(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boardSubscribers[boardID])
}

package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	ws "github.com/MohammadOTaha/side-planner/pkg/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

// Client is one authenticated websocket connection.
type Client struct {
	ID            string
	ownerID       string
	conn          *websocket.Conn
	hub           *Hub
	send          chan []byte
	subscriptions map[string]bool // board IDs, guarded by hub.mu
	closed        bool
	mu            sync.Mutex
	logger        *logger.Logger
}

func NewClient(id, ownerID string, conn *websocket.Conn, hub *Hub, log *logger.Logger) *Client {
	return &Client{
		ID:            id,
		ownerID:       ownerID,
		conn:          conn,
		hub:           hub,
		send:          make(chan []byte, 256),
		subscriptions: make(map[string]bool),
		logger:        log.WithFields(zap.String("client_id", id), zap.String("user_id", ownerID)),
	}
}

// ReadPump reads frames until the peer goes away. It runs on the handler
// goroutine and unregisters the client on return.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Debug("Failed to parse message", zap.Error(err))
			c.sendError("", "", ws.ErrorCodeBadRequest, "Invalid message format", nil)
			continue
		}
		c.handleMessage(ctx, &msg)
	}
}

func (c *Client) handleMessage(ctx context.Context, msg *ws.Message) {
	c.logger.Debug("Received message",
		zap.String("action", msg.Action),
		zap.String("id", msg.ID))

	// Subscriptions mutate hub state tied to this client.
	switch msg.Action {
	case ws.ActionBoardSubscribe:
		c.handleSubscribe(ctx, msg)
		return
	case ws.ActionBoardUnsubscribe:
		c.handleUnsubscribe(msg)
		return
	}

	response, err := c.hub.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		c.logger.Error("Handler error",
			zap.String("action", msg.Action),
			zap.Error(err))
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeInternalError, "Internal error", nil)
		return
	}
	if response != nil {
		c.sendMessage(response)
	}
}

// SubscribeRequest is the payload for board.subscribe and board.unsubscribe.
type SubscribeRequest struct {
	BoardID string `json:"board_id"`
}

func (c *Client) parseSubscribe(msg *ws.Message) (string, bool) {
	var req SubscribeRequest
	if err := msg.ParsePayload(&req); err != nil {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeBadRequest, "Invalid payload: "+err.Error(), nil)
		return "", false
	}
	if req.BoardID == "" {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeValidation, "board_id is required", nil)
		return "", false
	}
	return req.BoardID, true
}

func (c *Client) handleSubscribe(ctx context.Context, msg *ws.Message) {
	boardID, ok := c.parseSubscribe(msg)
	if !ok {
		return
	}

	if c.hub.authorize != nil {
		if err := c.hub.authorize(ctx, c.ownerID, boardID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.sendError(msg.ID, msg.Action, ws.ErrorCodeNotFound, "board not found", nil)
				return
			}
			c.logger.Error("failed to authorize board subscription", zap.String("board_id", boardID), zap.Error(err))
			c.sendError(msg.ID, msg.Action, ws.ErrorCodeInternalError, "Internal error", nil)
			return
		}
	}

	c.hub.SubscribeToBoard(c, boardID)
	c.reply(msg, map[string]any{"success": true, "board_id": boardID})
}

func (c *Client) handleUnsubscribe(msg *ws.Message) {
	boardID, ok := c.parseSubscribe(msg)
	if !ok {
		return
	}
	c.hub.UnsubscribeFromBoard(c, boardID)
	c.reply(msg, map[string]any{"success": true, "board_id": boardID})
}

func (c *Client) reply(msg *ws.Message, payload any) {
	resp, err := ws.NewResponse(msg.ID, msg.Action, payload)
	if err != nil {
		c.logger.Error("Failed to build response", zap.Error(err))
		return
	}
	c.sendMessage(resp)
}

func (c *Client) sendMessage(msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	c.enqueue(data)
}

func (c *Client) sendError(id, action, code, message string, details map[string]any) {
	msg, err := ws.NewError(id, action, code, message, details)
	if err != nil {
		c.logger.Error("Failed to create error message", zap.Error(err))
		return
	}
	c.sendMessage(msg)
}

// enqueue drops data when the buffer is full or the client is closing.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn("Client send buffer full")
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump writes queued frames and keepalive pings. Queued frames are
// batched into one websocket message separated by newlines.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				next, ok := <-c.send
				if !ok {
					break
				}
				_, _ = w.Write([]byte{'\n'})
				_, _ = w.Write(next)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

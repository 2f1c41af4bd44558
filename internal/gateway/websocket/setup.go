package websocket

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	"github.com/MohammadOTaha/side-planner/internal/events/bus"
	ws "github.com/MohammadOTaha/side-planner/pkg/websocket"
)

// Gateway bundles the hub, dispatcher and HTTP handler behind /ws.
type Gateway struct {
	Hub        *Hub
	Dispatcher *ws.Dispatcher
	Handler    *Handler
	logger     *logger.Logger
}

// NewGateway wires a gateway. Callers register request handlers on
// Dispatcher and must start Hub.Run.
func NewGateway(authorize BoardAuthorizer, allowedOrigins []string, log *logger.Logger) *Gateway {
	dispatcher := ws.NewDispatcher()
	hub := NewHub(dispatcher, authorize, log)
	RegisterHealthHandler(dispatcher)

	return &Gateway{
		Hub:        hub,
		Dispatcher: dispatcher,
		Handler:    NewHandler(hub, allowedOrigins, log),
		logger:     log,
	}
}

// Start runs the hub and forwards bus events until ctx is cancelled. The hub
// is not started when the event subscriptions fail.
func (g *Gateway) Start(ctx context.Context, eventBus bus.EventBus) (*BoardEventBroadcaster, error) {
	broadcaster, err := RegisterBoardNotifications(ctx, eventBus, g.Hub, g.logger)
	if err != nil {
		return nil, fmt.Errorf("websocket notifications: %w", err)
	}
	go g.Hub.Run(ctx)
	return broadcaster, nil
}

// SetupRoutes mounts /ws. The middlewares must authenticate the caller.
func (g *Gateway) SetupRoutes(router gin.IRoutes, middleware ...gin.HandlerFunc) {
	handlers := append(middleware, g.Handler.HandleConnection)
	router.GET("/ws", handlers...)
}

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/auth"
	"github.com/MohammadOTaha/side-planner/internal/board/handlers"
	"github.com/MohammadOTaha/side-planner/internal/board/repository/sqlite"
	"github.com/MohammadOTaha/side-planner/internal/board/service"
	"github.com/MohammadOTaha/side-planner/internal/common/config"
	"github.com/MohammadOTaha/side-planner/internal/common/httpmw"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	"github.com/MohammadOTaha/side-planner/internal/events"
	"github.com/MohammadOTaha/side-planner/internal/events/bus"
	gateways "github.com/MohammadOTaha/side-planner/internal/gateway/websocket"
	"github.com/MohammadOTaha/side-planner/internal/persistence"
	"github.com/MohammadOTaha/side-planner/internal/suggest"
)

// app holds the long-lived components of a running server.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	eventBus bus.EventBus
	service  *service.Service
	suggest  *suggest.Provided
	gateway  *gateways.Gateway
	router   *gin.Engine
	cleanups []func() error
}

// newApp opens storage, the event bus and the suggestion provider and builds
// the router. On error everything opened so far is closed again.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	pool, cleanup, err := persistence.Provide(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a.cleanups = append(a.cleanups, cleanup)

	repo, err := sqlite.NewWithPool(pool)
	if err != nil {
		return nil, err
	}

	provided, cleanup, err := events.Provide(cfg.Events, log)
	if err != nil {
		return nil, err
	}
	a.cleanups = append(a.cleanups, cleanup)
	a.eventBus = provided.Bus

	a.suggest, cleanup, err = suggest.Provide(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.cleanups = append(a.cleanups, cleanup)

	a.service = service.NewService(repo, a.eventBus, log)

	authorize := func(ctx context.Context, ownerID, boardID string) error {
		_, err := a.service.GetBoard(ctx, ownerID, boardID)
		return err
	}
	a.gateway = gateways.NewGateway(authorize, cfg.Server.AllowedOrigins, log)
	handlers.RegisterWS(a.gateway.Dispatcher, a.service, log)

	a.router = a.buildRouter(auth.NewVerifier(cfg.Auth))
	return a, nil
}

func (a *app) buildRouter(verifier *auth.Verifier) *gin.Engine {
	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		httpmw.RequestID(),
		httpmw.OtelTracing(serviceName),
		httpmw.RequestLogger(a.log, serviceName),
		httpmw.CORS(a.cfg.Server.AllowedOrigins),
	)

	router.GET("/health", a.health)

	api := router.Group("/api/v1", auth.Middleware(verifier, a.log, false))
	handlers.RegisterRoutes(api, a.service, a.suggest.Service, a.log)

	// Browsers cannot set headers on the websocket handshake.
	a.gateway.SetupRoutes(router, auth.Middleware(verifier, a.log, true))

	a.log.Info("API configured",
		zap.String("websocket", "/ws"),
		zap.String("health", "/health"),
		zap.String("http", "/api/v1"),
	)
	return router
}

// start runs the websocket hub and event forwarding until ctx ends.
func (a *app) start(ctx context.Context) error {
	_, err := a.gateway.Start(ctx, a.eventBus)
	return err
}

// close runs the cleanups in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		if err := a.cleanups[i](); err != nil {
			a.log.WithError(err).Warn("cleanup failed")
		}
	}
	a.cleanups = nil
}

// health reports 503 when the database or the suggestion cache is down.
// The event bus is reported but never fails the check.
func (a *app) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"events": a.eventBus.IsConnected()}

	if err := a.service.Ping(ctx); err != nil {
		a.log.Warn("health check: database unavailable", zap.Error(err))
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if a.suggest.Redis != nil {
		if err := a.suggest.Redis.Ping(ctx).Err(); err != nil {
			a.log.Warn("health check: redis unavailable", zap.Error(err))
			checks["cache"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			checks["cache"] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"status":  map[bool]string{true: "ok", false: "degraded"}[status == http.StatusOK],
		"service": serviceName,
		"version": Version,
		"checks":  checks,
	})
}

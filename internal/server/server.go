package server

import (
	"context"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tabshell/tabshell/backend/internal/api/middleware"
	"github.com/tabshell/tabshell/backend/internal/events"
	"github.com/tabshell/tabshell/backend/internal/http"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/config"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/logging"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/monitoring"
	"github.com/tabshell/tabshell/backend/internal/providers/filesystem"
	"github.com/tabshell/tabshell/backend/internal/providers/terminal"
	"github.com/tabshell/tabshell/backend/internal/service"
	"github.com/tabshell/tabshell/backend/internal/ws"
)

const shutdownGrace = 10 * time.Second

// Server wires the controller, providers, event bus, and transports
// together and owns their lifecycle.
type Server struct {
	cfg      *config.Config
	log      *logging.Logger
	router   *gin.Engine
	ctrl     *terminal.Controller
	registry *service.Registry
	httpSrv  *nethttp.Server
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NewDefault()
	}

	metrics := monitoring.NewMetrics()
	bus := events.NewBus(cfg.Terminal.EventBuffer, log, metrics)
	ctrl := terminal.NewController(cfg.Terminal, terminal.NewRegistry(), bus, log, metrics)

	registry := service.NewRegistry()
	for _, p := range []service.Provider{
		terminal.NewProvider(ctrl),
		filesystem.NewProvider(log),
	} {
		if err := registry.Register(p); err != nil {
			log.Warn("provider registration failed", zap.Error(err))
			continue
		}
		log.Info("provider registered", zap.String("service", p.Definition().ID))
	}

	handlers := http.NewHandlers(registry, ctrl, bus)
	wsHandler := ws.NewHandler(ctrl, bus, log, metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", monitoring.Handler(metrics))

	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	router.POST("/sessions", handlers.SpawnSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.DELETE("/sessions/:id", handlers.KillSession)

	router.GET("/ws", wsHandler.HandleConnection)

	return &Server{
		cfg:      cfg,
		log:      log,
		router:   router,
		ctrl:     ctrl,
		registry: registry,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &nethttp.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.log.Info("server listening", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections, then kills every live session and
// waits for their exit events to flush.
func (s *Server) Shutdown(ctx context.Context) error {
	var httpErr error
	if s.httpSrv != nil {
		httpErr = s.httpSrv.Shutdown(ctx)
	}

	s.ctrl.Shutdown(shutdownGrace)
	s.log.Info("server stopped")
	return httpErr
}

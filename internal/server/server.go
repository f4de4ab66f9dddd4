package server

import (
	"context"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codeloft/termdeck/backend/internal/config"
	"github.com/codeloft/termdeck/backend/internal/http"
	"github.com/codeloft/termdeck/backend/internal/logging"
	"github.com/codeloft/termdeck/backend/internal/middleware"
	"github.com/codeloft/termdeck/backend/internal/monitoring"
	"github.com/codeloft/termdeck/backend/internal/platform"
	"github.com/codeloft/termdeck/backend/internal/profile"
	"github.com/codeloft/termdeck/backend/internal/shell"
	"github.com/codeloft/termdeck/backend/internal/terminal"
	"github.com/codeloft/termdeck/backend/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg        *config.Config
	log        *logging.Logger
	router     *gin.Engine
	httpServer *nethttp.Server
	supervisor *terminal.Supervisor
}

// New creates a server instance with all routes registered.
func New(cfg *config.Config, log *logging.Logger) *Server {
	metrics := monitoring.NewMetrics()

	resolver := shell.NewResolver(platform.Host{})
	supervisor := terminal.NewSupervisor(cfg.Terminal, resolver, log.Named("terminal")).
		WithMetrics(metrics)

	handlers := http.NewHandlers(supervisor, profile.EnvSettings{}, profile.EnvCredentials{})
	wsHandler := ws.NewHandler(supervisor, log.Named("ws"), metrics)
	go wsHandler.Run()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	// Health
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Terminal management
	router.POST("/terminals", handlers.CreateTerminal)
	router.GET("/terminals", handlers.ListTerminals)
	router.GET("/terminals/:id", handlers.GetTerminal)
	router.GET("/terminals/:id/buffer", handlers.GetBuffer)
	router.POST("/terminals/:id/input", handlers.WriteInput)
	router.POST("/terminals/:id/resize", handlers.ResizeTerminal)
	router.DELETE("/terminals/:id", handlers.KillTerminal)
	router.PATCH("/terminals/:id", handlers.UpdateTerminal)

	// Event stream
	router.GET("/stream", wsHandler.HandleConnection)

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		cfg:        cfg,
		log:        log,
		router:     router,
		supervisor: supervisor,
	}
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &nethttp.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then kills every live session and
// waits for their exits.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.log.Warn("http shutdown", zap.Error(err))
		}
	}
	return s.supervisor.Shutdown(ctx)
}

package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yuuchan-san/soundcloud-downloader/application/cleanup"
	"github.com/yuuchan-san/soundcloud-downloader/application/download"
	"github.com/yuuchan-san/soundcloud-downloader/domain/artifact"
)

// Server is the HTTP boundary of the service
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr  string
	Debug bool
}

// NewServer wires the delivery endpoints onto a gin engine.
// The service is meant for public, unauthenticated deployments behind
// static-page frontends, so CORS is wide open.
func NewServer(
	cfg ServerConfig,
	downloads *download.Service,
	cleaner *cleanup.Service,
	store artifact.Store,
	logger *slog.Logger,
) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	engine.Use(cors.New(corsConfig))

	h := newHandler(downloads, cleaner, store, logger)
	h.register(engine)

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:    cfg.Addr,
			Handler: engine,
			// Downloads of large artifacts can be slow; only the
			// header read is bounded.
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the underlying engine (for tests and embedding)
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving and blocks until the listener closes
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

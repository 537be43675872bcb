// Package api serves the board over HTTP: an HTML view plus a small JSON API
// the view's pointer handlers talk to.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/memowall/pkg/core"
)

// Board is the subset of core.Board the server drives.
type Board interface {
	Notes() []core.Note
	Get(id string) (core.Note, bool)
	Version() uint64
	Viewport() core.Viewport
	SetViewport(v core.Viewport)
	DragOwner() string
	Add(ctx context.Context, text, author string, color core.Color) (core.Note, error)
	Remove(ctx context.Context, id string) bool
	PointerDown(id string, pointer core.Position) error
	PointerMove(pointer core.Position) (core.Note, bool)
	PointerUp(ctx context.Context) (core.Note, bool)
	PointerLeave(ctx context.Context) (core.Note, bool)
	State() any
}

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server exposes the gin engine.
type Server struct {
	engine *gin.Engine
	board  Board
	cfg    Config
	logger *slog.Logger
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, board Board, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)

	srv := &Server{engine: engine, board: board, cfg: cfg, logger: logger}
	srv.registerRoutes()
	return srv, nil
}

// Handler returns the HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("board listening", "addr", s.cfg.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleBoard)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.board.State())
	})

	api := s.engine.Group("/api")
	api.GET("/notes", s.handleListNotes)
	api.POST("/notes", s.handleCreateNote)
	api.DELETE("/notes/:id", s.handleDeleteNote)
	api.POST("/notes/:id/pointer/down", s.handlePointerDown)
	api.POST("/pointer/move", s.handlePointerMove)
	api.POST("/pointer/up", s.handlePointerUp)
	api.POST("/pointer/leave", s.handlePointerLeave)
	api.PUT("/viewport", s.handleViewport)
}

// requestLogger logs each request with slog.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debug("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

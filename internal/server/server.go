// Package server exposes the four-step wizard over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/assessment"
	"github.com/abhisek/atelier/internal/metrics"
	"github.com/abhisek/atelier/internal/report"
	"github.com/abhisek/atelier/internal/store"
	"github.com/abhisek/atelier/internal/wizard"
)

// Deps are the collaborators the handlers need. Repo and Log may be nil.
type Deps struct {
	Sessions    wizard.Store
	Assessments *assessment.Service
	Renderer    *report.Renderer
	Repo        store.AssessmentRepo
	Log         *zap.Logger
}

// Options tune the HTTP surface.
type Options struct {
	// MaxUploadBytes caps the body of an image upload.
	MaxUploadBytes int64

	// ShutdownTimeout bounds graceful shutdown. Default: 10s.
	ShutdownTimeout time.Duration
}

// Server is the HTTP wizard.
type Server struct {
	deps   Deps
	opts   Options
	log    *zap.Logger
	engine *gin.Engine
}

// New builds the router. Call gin.SetMode before New to pick the mode.
func New(deps Deps, opts Options) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{deps: deps, opts: opts, log: log}

	engine := gin.New()
	engine.Use(recovery(log), requestLogger(log))
	if opts.MaxUploadBytes > 0 {
		engine.MaxMultipartMemory = opts.MaxUploadBytes
	}
	s.routes(engine)
	s.engine = engine
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/questions", s.questions)
		api.GET("/assessments", s.listAssessments)

		sessions := api.Group("/sessions")
		sessions.POST("", s.createSession)
		sessions.GET("/:id", s.getSession)
		sessions.POST("/:id/answers", s.submitAnswers)
		sessions.POST("/:id/images", s.limitBody(), s.uploadImages)
		sessions.POST("/:id/analyze", s.analyze)
		sessions.GET("/:id/report.pdf", s.downloadReport)
		sessions.POST("/:id/reset", s.resetSession)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// The analyze call waits on the LLM.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

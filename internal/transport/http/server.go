// Package transporthttp exposes the webhook entry point and the
// observability endpoints over gin.
package transporthttp

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mako/internal/logger"
	"mako/internal/store"
	"mako/internal/trader"
)

// SignalHandler is the orchestrator's externally visible surface.
type SignalHandler interface {
	OnSignal(ctx context.Context, intent trader.TradeIntent) (*trader.CycleResult, error)
	States() map[string]trader.CycleState
}

// TradeLister pages the journal for the API.
type TradeLister interface {
	RecentCycles(ctx context.Context, symbol string, limit int) ([]store.CycleModel, error)
}

// ServerConfig describes the HTTP server dependencies.
type ServerConfig struct {
	Addr         string
	Orchestrator SignalHandler
	Journal      TradeLister
}

type Server struct {
	addr   string
	router *gin.Engine
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Orchestrator == nil {
		return nil, errors.New("http server requires an orchestrator")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8090"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	webhook, err := newWebhookHandler(cfg.Orchestrator)
	if err != nil {
		return nil, err
	}
	router.POST("/webhook", webhook.handle)

	api := router.Group("/api")
	api.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"symbols": cfg.Orchestrator.States()})
	})
	if cfg.Journal != nil {
		api.GET("/trades", func(c *gin.Context) {
			limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
			rows, err := cfg.Journal.RecentCycles(c.Request.Context(), c.Query("symbol"), limit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"trades": rows})
		})
	}

	return &Server{addr: cfg.Addr, router: router}, nil
}

// Run serves until ctx is cancelled, then drains with a short grace
// period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("http: listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("http: %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Truncate(time.Millisecond))
	}
}

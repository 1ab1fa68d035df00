package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TradeStore is the part of the journal the HTTP views depend on.
type TradeStore interface {
	List() []models.Trade
	Get(id string) (models.Trade, bool)
	Add(t models.Trade) (models.Trade, error)
	Update(id string, u models.TradeUpdate) (models.Trade, bool, error)
	Delete(id string) (bool, error)
	Stats() models.TradeStats
	Filter(f journal.TradeFilter) []models.Trade
	Summary() journal.Summary
	Today() string
}

var _ TradeStore = (*journal.Store)(nil)

// Server provides the HTTP interface to the journal.
type Server struct {
	server    *http.Server
	router    *gin.Engine
	store     TradeStore
	logger    *zap.Logger
	startTime time.Time
	driver    string
}

// NewServer creates a new Server listening on port. driver is only reported by /api/status.
func NewServer(port int, store TradeStore, driver string, logger *zap.Logger) *Server {
	s := &Server{
		store:     store,
		logger:    logger.Named("api-server"),
		startTime: time.Now(),
		driver:    driver,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))
	s.registerRoutes(router)
	s.router = router

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/health", s.healthHandler)

	api := router.Group("/api")
	{
		api.GET("/status", s.statusHandler)
		api.GET("/summary", s.summaryHandler)
		api.GET("/stats", s.statsHandler)
		api.POST("/preview", s.previewHandler)

		api.GET("/trades", s.listTradesHandler)
		api.POST("/trades", s.createTradeHandler)
		api.GET("/trades/:id", s.getTradeHandler)
		api.PUT("/trades/:id", s.editTradeHandler)
		api.PATCH("/trades/:id", s.patchTradeHandler)
		api.DELETE("/trades/:id", s.deleteTradeHandler)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Debug("Request served", fields...)
		}
	}
}

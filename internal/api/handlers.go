package api

import (
	"net/http"
	"time"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatusResponse is the body of /api/status.
type StatusResponse struct {
	StartTime string `json:"start_time"`
	Uptime    string `json:"uptime"`
	Storage   string `json:"storage"`
	Trades    int    `json:"trades"`
	Today     string `json:"today"`
}

// PreviewRequest carries the form values the live preview depends on.
type PreviewRequest struct {
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
	Qty       int             `json:"qty"`
}

// DeleteResponse tells whether a trade was actually removed.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (s *Server) healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) statusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		StartTime: s.startTime.Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Storage:   s.driver,
		Trades:    len(s.store.List()),
		Today:     s.store.Today(),
	})
}

func (s *Server) summaryHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Summary())
}

func (s *Server) statsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Stats())
}

func (s *Server) previewHandler(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, journal.Preview(req.BuyPrice, req.SellPrice, req.Qty))
}

// listTradesHandler returns all trades, most recent first, optionally filtered
// by ?type= (ALL by default) and ?status=.
func (s *Server) listTradesHandler(c *gin.Context) {
	filter, err := journal.ParseTradeFilter(c.DefaultQuery("type", journal.AllTypes), c.Query("status"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, s.store.Filter(filter))
}

func (s *Server) getTradeHandler(c *gin.Context) {
	trade, found := s.store.Get(c.Param("id"))
	if !found {
		abortWithError(c, http.StatusNotFound, "trade not found")
		return
	}
	c.JSON(http.StatusOK, trade)
}

// bindForm decodes and validates a create/edit form.
func bindForm(c *gin.Context) (journal.TradeForm, bool) {
	var form journal.TradeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return form, false
	}
	if err := form.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return form, false
	}
	return form, true
}

func (s *Server) createTradeHandler(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}

	trade, err := s.store.Add(form.Trade())
	if err != nil {
		s.logger.Error("Failed to add trade", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "failed to save trade")
		return
	}
	c.JSON(http.StatusCreated, trade)
}

func (s *Server) editTradeHandler(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}
	s.applyUpdate(c, form.Update())
}

func (s *Server) patchTradeHandler(c *gin.Context) {
	var update models.TradeUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.applyUpdate(c, update)
}

func (s *Server) applyUpdate(c *gin.Context, update models.TradeUpdate) {
	id := c.Param("id")
	trade, found, err := s.store.Update(id, update)
	if err != nil {
		s.logger.Error("Failed to update trade", zap.String("id", id), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "failed to save trade")
		return
	}
	if !found {
		abortWithError(c, http.StatusNotFound, "trade not found")
		return
	}
	c.JSON(http.StatusOK, trade)
}

// deleteTradeHandler requires ?confirm=true; the caller is expected to have
// asked the user first.
func (s *Server) deleteTradeHandler(c *gin.Context) {
	if c.Query("confirm") != "true" {
		abortWithError(c, http.StatusPreconditionRequired, "deletion must be confirmed with confirm=true")
		return
	}

	id := c.Param("id")
	deleted, err := s.store.Delete(id)
	if err != nil {
		s.logger.Error("Failed to delete trade", zap.String("id", id), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "failed to delete trade")
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}

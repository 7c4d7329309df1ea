// Package api exposes the extraction pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/batch"
	"github.com/fundsift/fundsift/internal/fetch"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/scrape"
	"github.com/fundsift/fundsift/internal/store"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	scraper *scrape.Scraper
	store   *store.Store
	runner  *batch.Runner
	log     *zap.Logger
}

func NewHandlers(scraper *scrape.Scraper, st *store.Store, runner *batch.Runner, log *zap.Logger) *Handlers {
	return &Handlers{scraper: scraper, store: st, runner: runner, log: log}
}

// Root handles GET /
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "fundsift",
		"status":  "running",
	})
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

type extractRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// Extract handles POST /api/extract. With only a URL the page is
// fetched and the record persisted; with inline HTML the markup is
// extracted directly and nothing is stored.
func (h *Handlers) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.URL == "" && req.HTML == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url or html required"})
		return
	}

	var (
		rec *record.FundRecord
		err error
	)
	if req.HTML != "" {
		rec, err = h.scraper.ExtractHTML(c.Request.Context(), req.HTML, req.URL)
	} else {
		rec, err = h.scraper.ScrapeURL(c.Request.Context(), req.URL)
	}
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, fetch.ErrBlocked) || errors.Is(err, fetch.ErrHostOpen) {
			status = http.StatusBadGateway
		}
		h.log.Warn("extract failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetFund handles GET /api/funds/:slug
func (h *Handlers) GetFund(c *gin.Context) {
	slug := c.Param("slug")
	rec, err := h.store.Load(slug)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "fund not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ListFunds handles GET /api/funds
func (h *Handlers) ListFunds(c *gin.Context) {
	slugs, err := h.store.Slugs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"funds": slugs, "count": len(slugs)})
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

// SubmitBatch handles POST /api/batch
func (h *Handlers) SubmitBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "urls required"})
		return
	}

	// Detach from the request context: the job outlives the request.
	job := h.runner.Submit(context.WithoutCancel(c.Request.Context()), req.URLs)
	c.JSON(http.StatusAccepted, job)
}

// BatchStatus handles GET /api/batch/:id
func (h *Handlers) BatchStatus(c *gin.Context) {
	job, ok := h.runner.Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

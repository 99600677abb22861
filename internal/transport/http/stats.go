package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 500
)

type StatsReader interface {
	RecentSearches(ctx context.Context, difficulty string, limit int) ([]domain.SearchRecord, error)
	Summary(ctx context.Context) ([]domain.SearchSummary, error)
}

type StatsHandler struct {
	Repo StatsReader
}

func NewStatsHandler(repo StatsReader) *StatsHandler {
	return &StatsHandler{Repo: repo}
}

// RecentSearches handles GET /api/bot/searches?difficulty=&limit=
func (h *StatsHandler) RecentSearches(c *gin.Context) {
	if h.Repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Statistics store not configured"})
		return
	}

	difficulty := c.Query("difficulty")
	if difficulty != "" {
		d, err := domain.ParseDifficulty(difficulty)
		if err != nil {
			writeError(c, err)
			return
		}
		difficulty = d.String()
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer", "code": "bad_request"})
			return
		}
		limit = min(n, maxSearchLimit)
	}

	records, err := h.Repo.RecentSearches(c.Request.Context(), difficulty, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Summary handles GET /api/bot/stats
func (h *StatsHandler) Summary(c *gin.Context) {
	if h.Repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Statistics store not configured"})
		return
	}

	summaries, err := h.Repo.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

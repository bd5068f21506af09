package http

import (
	"context"
	"net/http"
	"strconv"

	"ozzus/pingdumb/internal/domain"

	"github.com/gin-gonic/gin"
)

type ResultReader interface {
	Recent(ctx context.Context, limit, hours int) ([]domain.Result, error)
}

type ResultsController struct {
	results ResultReader
}

func NewResultsController(results ResultReader) *ResultsController {
	return &ResultsController{results: results}
}

// Recent serves GET /api/results?limit=N&hours=H. Both are optional.
func (h *ResultsController) Recent(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hours, err := queryInt(c, "hours")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.results.Recent(c.Request.Context(), limit, hours)
	if err != nil {
		writeError(c, err)
		return
	}
	if results == nil {
		results = []domain.Result{}
	}
	c.JSON(http.StatusOK, results)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewConfigurationError(key + " must be a non-negative integer")
	}
	return n, nil
}

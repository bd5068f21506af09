package http

import (
	"context"
	"errors"
	"net/http"

	"ozzus/pingdumb/internal/domain"

	"github.com/gin-gonic/gin"
)

type DefinitionManager interface {
	List(ctx context.Context) ([]domain.CheckDefinition, error)
	Create(ctx context.Context, def domain.CheckDefinition) (domain.CheckDefinition, error)
	Update(ctx context.Context, id string, def domain.CheckDefinition) (domain.CheckDefinition, error)
	Delete(ctx context.Context, id string) error
}

type DefinitionsController struct {
	definitions DefinitionManager
}

func NewDefinitionsController(definitions DefinitionManager) *DefinitionsController {
	return &DefinitionsController{definitions: definitions}
}

// definitionRequest is the body of create and update. A missing enabled
// field means enabled.
type definitionRequest struct {
	Name       string                 `json:"name"`
	Kind       domain.CheckKind       `json:"test_type"`
	Target     string                 `json:"target"`
	Interval   int                    `json:"interval"`
	Timeout    int                    `json:"timeout"`
	Enabled    *bool                  `json:"enabled"`
	DNSServers []string               `json:"dns_servers"`
	Parameters map[string]interface{} `json:"parameters"`
}

func (r definitionRequest) toDefinition() domain.CheckDefinition {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}

	return domain.CheckDefinition{
		Name:       r.Name,
		Kind:       r.Kind,
		Target:     r.Target,
		Interval:   r.Interval,
		Timeout:    r.Timeout,
		Enabled:    enabled,
		DNSServers: r.DNSServers,
		Parameters: r.Parameters,
	}
}

func (h *DefinitionsController) List(c *gin.Context) {
	defs, err := h.definitions.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if defs == nil {
		defs = []domain.CheckDefinition{}
	}
	c.JSON(http.StatusOK, defs)
}

func (h *DefinitionsController) Create(c *gin.Context) {
	var req definitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	def, err := h.definitions.Create(c.Request.Context(), req.toDefinition())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

func (h *DefinitionsController) Update(c *gin.Context) {
	var req definitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	def, err := h.definitions.Update(c.Request.Context(), c.Param("id"), req.toDefinition())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

func (h *DefinitionsController) Delete(c *gin.Context) {
	if err := h.definitions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

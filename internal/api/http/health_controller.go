package http

import (
	"context"
	"net/http"
	"time"

	"ozzus/pingdumb/internal/domain"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type SchedulerStatusReporter interface {
	HealthCheck(ctx context.Context) error
	Status() domain.SchedulerStatus
}

type HealthController struct {
	scheduler SchedulerStatusReporter
	instance  string
	info      func() gin.H
}

// NewHealthController serves probes for the instance. extra, when not nil,
// is merged into the /info response.
func NewHealthController(scheduler SchedulerStatusReporter, instance string, extra func() gin.H) *HealthController {
	return &HealthController{
		scheduler: scheduler,
		instance:  instance,
		info:      extra,
	}
}

// APIHealth always answers ok while the process serves requests.
func (h *HealthController) APIHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthController) Health(c *gin.Context) {
	if err := h.scheduler.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, domain.HealthResponse{
			Status:    domain.HealthStatusUnhealthy,
			Timestamp: time.Now(),
			Instance:  h.instance,
			Message:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    domain.HealthStatusHealthy,
		Timestamp: time.Now(),
		Instance:  h.instance,
		Message:   "scheduler is running",
	})
}

func (h *HealthController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status())
}

func (h *HealthController) Ready(c *gin.Context) {
	if err := h.scheduler.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"instance":  h.instance,
			"message":   err.Error(),
			"timestamp": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"instance":  h.instance,
		"message":   "ready to run checks",
		"timestamp": time.Now(),
	})
}

func (h *HealthController) Info(c *gin.Context) {
	status := h.scheduler.Status()

	info := gin.H{
		"instance":  h.instance,
		"version":   Version,
		"timestamp": time.Now(),
		"scheduler": gin.H{
			"running":       status.Running,
			"tick_interval": status.TickInterval,
			"scheduled":     len(status.Entries),
		},
	}
	if h.info != nil {
		for k, v := range h.info() {
			info[k] = v
		}
	}

	c.JSON(http.StatusOK, info)
}

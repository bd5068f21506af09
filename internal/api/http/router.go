package http

import (
	"log/slog"
	"slices"
	"time"

	"ozzus/pingdumb/internal/api/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Health      *HealthController
	Definitions *DefinitionsController
	Results     *ResultsController
	WS          *WSController
}

func NewRouter(ctrl Controllers, allowedOrigins []string, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(log), gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", ctrl.Health.Health)
	router.GET("/status", ctrl.Health.Status)
	router.GET("/ready", ctrl.Health.Ready)
	router.GET("/info", ctrl.Health.Info)

	api := router.Group("/api")
	{
		api.GET("/health", ctrl.Health.APIHealth)

		api.GET("/configs", ctrl.Definitions.List)
		api.POST("/configs", ctrl.Definitions.Create)
		api.PUT("/configs/:id", ctrl.Definitions.Update)
		api.DELETE("/configs/:id", ctrl.Definitions.Delete)

		api.GET("/results", ctrl.Results.Recent)
	}

	router.GET("/ws", ctrl.WS.Stream)

	return router
}

// Package server wires the dispatcher to HTTP. Routing, CORS and recovery
// are transport glue; all request semantics live in the dispatch package.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nextgen-api/internal/common/config"
	apperrors "nextgen-api/internal/common/errors"
	"nextgen-api/internal/common/logger"
	"nextgen-api/internal/dispatch"
	"nextgen-api/internal/models"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg *config.Config, d *dispatch.Dispatcher, log logger.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(recoveryMiddleware(log))
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	h := newHandlers(d, log)

	api := router.Group("/api/nextgen")
	{
		api.GET("/", h.index)
		api.GET("/capabilities", h.capabilities)
		api.POST("/heartbeat", h.heartbeat)
		api.POST("/generate", h.generate)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// recoveryMiddleware is the last-resort handler: a panic anywhere below
// still produces a well-formed INTERNAL envelope, with the cause logged
// for operators and kept off the wire.
func recoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"cause": recovered,
		})
		appErr := apperrors.New(apperrors.KindInternal)
		c.AbortWithStatusJSON(appErr.Status(), models.ErrorResponse{
			StatusCode: appErr.Status(),
			ErrorKind:  appErr.Kind,
			Message:    appErr.Message,
		})
	})
}

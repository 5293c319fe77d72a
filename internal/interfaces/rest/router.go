package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexuscrm/hygiene/internal/interfaces/middleware"
	"github.com/nexuscrm/hygiene/pkg/auth"
)

// NewRouter wires the hygiene routes. issuer may be nil or disabled, in which
// case /api is served without authentication.
func NewRouter(handler *HygieneHandler, issuer *auth.Issuer, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Cors())

	router.GET("/health", handler.Health)

	api := router.Group("/api", middleware.RequireAuth(issuer))
	{
		hygiene := api.Group("/hygiene")
		{
			hygiene.POST("/run", handler.Run)
			hygiene.POST("/check", handler.Check)
			hygiene.GET("/runs", handler.ListRuns)
			hygiene.GET("/runs/:id", handler.GetRun)
			hygiene.GET("/dashboard", handler.Dashboard)
		}
	}

	return router
}

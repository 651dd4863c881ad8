package api

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/api/handlers"
	"github.com/mifi/goclip/internal/api/middleware"
	"github.com/mifi/goclip/internal/config"
	"github.com/mifi/goclip/internal/services"
)

// NewRouter builds the gin engine for the optional serve subcommand,
// exposing the clip/inspect/verify/preset operations as JSON endpoints.
func NewRouter(services *services.Services, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CorsOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	clipHandler := handlers.NewClipHandler(services, logger)
	presetHandler := handlers.NewPresetHandler(services, logger)

	api := router.Group("/api")
	{
		api.POST("/clip", clipHandler.Clip)
		api.POST("/clip/async", clipHandler.Submit)
		api.GET("/clip/jobs/:id", clipHandler.GetJob)
		api.POST("/inspect", clipHandler.Inspect)
		api.POST("/verify", clipHandler.Verify)

		presets := api.Group("/presets")
		{
			presets.GET("", presetHandler.List)
			presets.POST("", presetHandler.Create)
			presets.DELETE("/:id", presetHandler.Delete)
		}

		api.GET("/outputs/:filename", func(c *gin.Context) {
			filename := c.Param("filename")
			path := services.Storage.GetOutputPath(filename)

			if !services.Storage.FileExists(path) {
				logger.Warn("output file not found", zap.String("filename", filename))
				c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
				return
			}

			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
			c.File(path)
		})
	}

	return router
}

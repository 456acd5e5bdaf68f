package routes

import (
	"github.com/gin-gonic/gin"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/handlers"
	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/metrics"
	"symptom-checker-server/internal/middleware"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/ratelimit"
	"symptom-checker-server/internal/services"
)

// SetupRoutes configures the application routes. m may be nil, in which
// case no metrics are collected or exposed.
func SetupRoutes(router *gin.Engine, svc *services.Container, cfg *config.Config, limiter ratelimit.Limiter, m *metrics.Metrics, log *logger.Logger) {
	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(svc.Sessions, svc.Matcher)
	catalogHandler := handlers.NewCatalogHandler(svc.Symptoms, svc.Conditions, svc.Treatments)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	adminHandler := handlers.NewAdminHandler(svc.Admin, svc.Sweeper)

	router.Use(middleware.RequestLogger(log))
	if m != nil {
		router.Use(m.Middleware())
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Public symptom checker routes
	checker := router.Group("/api/v1/checker")
	{
		checker.POST("/sessions", sessionHandler.CreateSession)
		checker.POST("/sessions/:sessionId/symptoms", sessionHandler.SaveSymptoms)
		checker.POST("/sessions/:sessionId/match", sessionHandler.Match)

		checker.GET("/symptoms", middleware.DebounceSearch(limiter, m, log), catalogHandler.ListSymptoms)
		checker.GET("/symptoms/common", catalogHandler.ListCommonSymptoms)
		checker.GET("/regions", catalogHandler.ListRegions)
		checker.GET("/conditions/:slug", catalogHandler.GetCondition)
		checker.GET("/treatments/:conditionId", catalogHandler.GetTreatment)

		checker.POST("/reports", reportHandler.GenerateReport)
		checker.GET("/reports/:id", reportHandler.GetReport)
	}

	// Operator routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	{
		catalog := admin.Group("")
		catalog.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleEditor))
		{
			catalog.POST("/symptoms", adminHandler.UpsertSymptom)
			catalog.POST("/conditions", adminHandler.UpsertCondition)
			catalog.POST("/treatments", adminHandler.UpsertTreatment)
		}

		admin.POST("/sessions/sweep", middleware.RoleAuthMiddleware(models.RoleAdmin), adminHandler.SweepSessions)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}

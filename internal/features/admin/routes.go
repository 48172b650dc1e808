package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/Anitej05/Civic-Connect/internal/features/reports"
	"github.com/Anitej05/Civic-Connect/internal/middleware"
)

// RegisterRoutes registers the admin triage routes
func RegisterRoutes(router *gin.RouterGroup, reportsRepo *reports.Repository, roles middleware.RoleResolver) {
	handler := NewHandler(reportsRepo)

	adminGroup := router.Group("/reports/admin")
	adminGroup.Use(middleware.Auth(), middleware.RequireAdmin(roles))
	{
		adminGroup.GET("/reports", handler.ListReports)
		adminGroup.PUT("/report/:id/status", handler.UpdateStatus)
	}
}

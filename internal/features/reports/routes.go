package reports

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Anitej05/Civic-Connect/internal/classifier"
	"github.com/Anitej05/Civic-Connect/internal/geo"
	"github.com/Anitej05/Civic-Connect/internal/middleware"
	"github.com/Anitej05/Civic-Connect/internal/pkg/ratelimit"
	"github.com/Anitej05/Civic-Connect/internal/pkg/storage"
)

// RegisterRoutes registers the report routes
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, store storage.Store, engine *classifier.Engine, geoIndex geo.Index) *Repository {
	repo := NewRepository(db)
	service := NewService(repo, store, engine, geoIndex)
	handler := NewHandler(repo, service)

	// Submissions run the AI pipeline and an upload; keep them rate limited.
	submitLimiter := ratelimit.New(10, time.Minute)
	submitLimiter.StartCleanup(5 * time.Minute)

	reportsGroup := router.Group("/reports")
	{
		// Public routes
		reportsGroup.GET("/nearby", handler.Nearby)

		// Protected routes
		reportsGroup.POST("/smart-create", middleware.Auth(), ratelimit.UserBasedMiddleware(submitLimiter), handler.SmartCreate)
		reportsGroup.GET("/my-reports", middleware.Auth(), handler.MyReports)
		reportsGroup.POST("/:id/upvote", middleware.Auth(), handler.Upvote)
		reportsGroup.GET("/:id", handler.Get)
	}

	return repo
}

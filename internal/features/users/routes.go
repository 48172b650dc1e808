package users

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Anitej05/Civic-Connect/internal/config"
	"github.com/Anitej05/Civic-Connect/internal/middleware"
)

// RegisterRoutes registers user and webhook routes
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	handler := NewHandler(repo, cfg.ClerkWebhookSecret)

	// Webhook is authenticated by signature, not by bearer token.
	router.POST("/webhooks/clerk", handler.ClerkWebhook)

	usersGroup := router.Group("/users")
	usersGroup.Use(middleware.Auth())
	{
		usersGroup.GET("/me", handler.GetMe)
	}
}

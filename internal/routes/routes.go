package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Anitej05/Civic-Connect/internal/classifier"
	"github.com/Anitej05/Civic-Connect/internal/config"
	"github.com/Anitej05/Civic-Connect/internal/features/admin"
	"github.com/Anitej05/Civic-Connect/internal/features/reports"
	"github.com/Anitej05/Civic-Connect/internal/features/users"
	"github.com/Anitej05/Civic-Connect/internal/geo"
	"github.com/Anitej05/Civic-Connect/internal/pkg/storage"
)

// Deps carries the externally constructed collaborators the features need.
type Deps struct {
	Store    storage.Store
	Engine   *classifier.Engine
	GeoIndex geo.Index
}

func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, deps Deps) {
	api := router.Group("/api/v1")

	usersRepo := users.NewRepository(db)

	users.RegisterRoutes(api, db, cfg)
	reportsRepo := reports.RegisterRoutes(api, db, deps.Store, deps.Engine, deps.GeoIndex)
	admin.RegisterRoutes(api, reportsRepo, usersRepo)
}

// @title Civic Connect API
// @version 1.0
// @description Citizen civic issue reporting with AI-assisted classification
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anitej05/Civic-Connect/internal/classifier"
	"github.com/Anitej05/Civic-Connect/internal/config"
	"github.com/Anitej05/Civic-Connect/internal/database"
	"github.com/Anitej05/Civic-Connect/internal/geo"
	"github.com/Anitej05/Civic-Connect/internal/middleware"
	"github.com/Anitej05/Civic-Connect/internal/pkg/response"
	"github.com/Anitej05/Civic-Connect/internal/pkg/storage"
	"github.com/Anitej05/Civic-Connect/internal/routes"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/Anitej05/Civic-Connect/docs"
)

func main() {
	cfg := config.Load()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Disconnect(context.Background())

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize media storage:", err)
	}

	engine := buildClassifier(cfg)
	geoIndex := buildGeoIndex(cfg, db)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.FrontendURL))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			response.ServiceUnavailable(c, "database unreachable", "DB_DOWN")
			return
		}
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	routes.SetupRoutes(router, db.Database, cfg, routes.Deps{
		Store:    store,
		Engine:   engine,
		GeoIndex: geoIndex,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func buildStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "minio":
		store, err := storage.NewMinioStore(
			cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioUseSSL,
		)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return storage.NewCloudinaryStore(
			cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret, cfg.CloudinaryFolder,
		)
	}
}

func buildClassifier(cfg *config.Config) *classifier.Engine {
	if cfg.AIBaseURL == "" {
		log.Println("AI_BASE_URL not set, classification falls back to keyword rules")
		return classifier.NewEngine(nil, nil)
	}

	chat := classifier.NewChatClient(
		cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel,
		time.Duration(cfg.AITimeoutSeconds)*time.Second,
	)
	return classifier.NewEngine(chat, classifier.NewAIClassifier(chat))
}

func buildGeoIndex(cfg *config.Config, db *database.MongoDB) geo.Index {
	if cfg.GeoDriver == "memory" {
		return geo.NewMemoryIndex()
	}
	return geo.NewMongoIndex(db.Database.Collection("reports"))
}

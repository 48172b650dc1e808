package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Anitej05/Civic-Connect/internal/config"
	"github.com/Anitej05/Civic-Connect/internal/pkg/storage"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	// Test MongoDB
	fmt.Println("Testing MongoDB connection...")
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("MongoDB connection failed:", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatal("MongoDB ping failed:", err)
	}
	fmt.Println("✅ MongoDB connected successfully!")

	// Test media storage
	fmt.Printf("\nTesting media storage (%s)...\n", cfg.StorageDriver)
	switch cfg.StorageDriver {
	case "minio":
		store, err := storage.NewMinioStore(
			cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatal("MinIO initialization failed:", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatal("MinIO bucket check failed:", err)
		}
	default:
		if _, err := storage.NewCloudinaryStore(
			cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret, cfg.CloudinaryFolder,
		); err != nil {
			log.Fatal("Cloudinary initialization failed:", err)
		}
	}
	fmt.Println("✅ Media storage configured successfully!")

	// Test AI endpoint
	if cfg.AIBaseURL == "" {
		fmt.Println("\nAI_BASE_URL not set, skipping AI check (keyword fallback will be used)")
	} else {
		fmt.Println("\nTesting AI endpoint...")
		httpClient := &http.Client{Timeout: 10 * time.Second}
		req, err := http.NewRequest(http.MethodGet, cfg.AIBaseURL+"/models", nil)
		if err != nil {
			log.Fatal("AI request build failed:", err)
		}
		if cfg.AIAPIKey != "" {
			req.Header.Set("Authorization", "Bearer "+cfg.AIAPIKey)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			log.Fatal("AI endpoint unreachable:", err)
		}
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			log.Fatal("AI endpoint returned status:", resp.StatusCode)
		}
		fmt.Println("✅ AI endpoint reachable!")
	}

	fmt.Println("\nAll configured services are reachable. 🎉")
}

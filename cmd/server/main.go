package main

import (
	"log"
	"os"
	"strings"

	"chirp/internal/db"
	"chirp/internal/router"
	"chirp/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=chirp port=5432 sslmode=disable"
	}

	conn, err := db.Open(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		secret = "secret_key_change_me"
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig()))

	router.RegisterRoutes(r, store.NewGorm(conn), []byte(secret))

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Printf("chirp server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// corsConfig builds the allow-list from CORS_ORIGINS, a comma-separated
// list of origins. Empty means any origin (local development).
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowCredentials = true

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = strings.Split(origins, ",")
	return cfg
}

package main

import (
	"log"
	"os"

	"bakuwaki/internal/db"
	"bakuwaki/internal/router"
	"bakuwaki/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions (admin surface only; visitors have no accounts)
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("bakuwaki_session", store))

	// Image storage for post/reply attachments
	imageDir := os.Getenv("IMAGE_DIR")
	if imageDir == "" {
		imageDir = "./data/images"
	}
	publicURL := os.Getenv("PUBLIC_URL")
	if publicURL == "" {
		publicURL = "http://localhost:8080"
	}
	images, err := services.NewImageStore(imageDir, publicURL+"/images")
	if err != nil {
		log.Fatalf("Failed to init image store: %v", err)
	}

	router.RegisterRoutes(r, images)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Bakuwaki board server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"quickchat/chat"
	"quickchat/database"
	"quickchat/handlers"
	"quickchat/middleware"
	"quickchat/realtime"
	"quickchat/routes"
	"quickchat/storage"
	"quickchat/uploads"
)

func main() {
	log.Println("🚀 Starting QuickChat server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("❌ JWT_SECRET must be set")
	}

	// ===== CONNECT TO MONGODB WITH RETRY =====
	log.Println("🔌 Connecting to MongoDB...")

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectDB(); err != nil {
			dbErr = err
			log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("❌ Failed to connect to MongoDB: ", dbErr)
	}
	defer database.DisconnectDB()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ===== CORE WIRING =====
	userStore := storage.NewUsers(database.Users)
	messageStore := storage.NewMessages(database.Messages)

	var uploader uploads.Uploader
	if os.Getenv("CLOUDINARY_URL") != "" {
		cld, err := uploads.NewCloudinary()
		if err != nil {
			log.Fatal("❌ Cloudinary configuration failed: ", err)
		}
		uploader = cld
	} else {
		log.Println("⚠️  CLOUDINARY_URL not set, image messages disabled")
	}

	registry := realtime.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry, handlers.NotifyOffline)
	chatService := chat.NewService(messageStore, dispatcher)

	handlers.Configure(chatService, userStore, uploader)
	handlers.InitPush()

	router := routes.SetupRouter()
	router.GET("/ws", gin.WrapF(realtime.Handler(registry, middleware.ParseToken)))

	// ===== SERVER =====
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error: ", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown: ", err)
	}

	log.Println("👋 Server stopped gracefully")
}

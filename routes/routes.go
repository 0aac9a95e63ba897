package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quickchat/handlers"
	"quickchat/middleware"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/api/status", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	auth := router.Group("/api/auth")
	auth.POST("/register", handlers.Signup)
	auth.POST("/login", handlers.Login)
	auth.GET("/check", middleware.JWTAuthMiddleware(), handlers.CheckAuth)
	auth.PUT("/update", middleware.JWTAuthMiddleware(), handlers.UpdateProfile)

	messages := router.Group("/api/messages")
	messages.Use(middleware.JWTAuthMiddleware())
	messages.GET("/users", handlers.GetUsersForSidebar)
	messages.GET("/:id", handlers.GetMessages)
	messages.PUT("/mark/:id", handlers.MarkMessageSeen)
	messages.POST("/send/:id", handlers.SendMessage)

	push := router.Group("/api/push")
	push.GET("/vapid-public-key", handlers.GetVapidPublicKey)
	push.POST("/subscribe", middleware.JWTAuthMiddleware(), handlers.SubscribePush)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
		}
	})

	return router
}

package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetUsersForSidebar returns every other user together with the
// viewer's unseen-message count per counterpart. Counterparts with no
// unseen messages are simply absent from the map.
func GetUsersForSidebar(c *gin.Context) {
	viewerID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := userStore.ListOthers(ctx, viewerID)
	if err != nil {
		log.Printf("GetUsersForSidebar list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	for i := range users {
		if users[i].ProfilePic == "" {
			users[i].ProfilePic = fallbackAvatar
		}
	}

	counts, err := chatService.UnreadCounts(ctx, viewerID)
	if err != nil {
		log.Printf("GetUsersForSidebar counts error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unseen messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"users":          users,
		"unseenMessages": counts,
	})
}

package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quickchat/chat"
	"quickchat/models"
)

type SendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"` // base64 data URI, uploaded before persisting
}

// SendMessage persists a message to the user in the path and hands it
// to the dispatcher. If an image is attached, the upload happens first;
// an upload failure aborts the whole send so no half-message is stored.
func SendMessage(c *gin.Context) {
	senderID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receiver ID"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	imageURL := ""
	if req.Image != "" {
		if imageUploader == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image uploads not configured"})
			return
		}
		imageURL, err = imageUploader.Upload(ctx, req.Image, "quickchat/messages")
		if err != nil {
			log.Printf("Message image upload error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}
	}

	msg, err := chatService.Send(ctx, senderID, receiverID, req.Text, imageURL)
	if errors.Is(err, chat.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("SendMessage error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"newMessage": msg,
	})
}

// GetMessages returns the full conversation with the user in the path,
// oldest first. Fetching is the implicit read receipt: every unseen
// message from that user is marked seen as part of this call.
func GetMessages(c *gin.Context) {
	viewerID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	counterpartID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msgs, err := chatService.FetchConversation(ctx, viewerID, counterpartID)
	if err != nil {
		log.Printf("GetMessages error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": msgs,
	})
}

// MarkMessageSeen marks a single message seen by id, independent of a
// full conversation fetch. Repeat calls are no-ops.
func MarkMessageSeen(c *gin.Context) {
	messageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = chatService.MarkSeen(ctx, messageID)
	if errors.Is(err, chat.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	if err != nil {
		log.Printf("MarkMessageSeen error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as seen"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message marked as seen"})
}

package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quickchat/database"
	"quickchat/models"
)

var vapidPrivateKey string

type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

// InitPush loads or generates the VAPID key pair. Called from main
// after the environment is loaded.
func InitPush() {
	if os.Getenv("VAPID_PUBLIC_KEY") == "" || os.Getenv("VAPID_PRIVATE_KEY") == "" {
		publicKey, privateKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys: %v", err)
			return
		}

		os.Setenv("VAPID_PUBLIC_KEY", publicKey)
		os.Setenv("VAPID_PRIVATE_KEY", privateKey)

		log.Println("Generated ephemeral VAPID keys; set VAPID_PUBLIC_KEY/VAPID_PRIVATE_KEY to keep subscriptions across restarts")
	}

	vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
}

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "VAPID public key not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": publicKey})
}

func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// ID stays zero so omitempty drops _id from the $set document;
	// re-subscribing must update the existing document, and Mongo
	// rejects any $set that touches the immutable _id.
	pushSub := PushSubscription{
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	_, err = database.PushSubs.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": pushSub},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("Failed to save push subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Push subscription saved"})
}

// NotifyOffline fires a web push for a message whose receiver had no
// live connection. Wired as the dispatcher's queued hook; failures are
// logged and swallowed since the store fetch path already guarantees
// the message is not lost.
func NotifyOffline(m *models.Message) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sub PushSubscription
		err := database.PushSubs.FindOne(ctx, bson.M{"userId": m.ReceiverID}).Decode(&sub)
		if err == mongo.ErrNoDocuments {
			return
		}
		if err != nil {
			log.Printf("Failed to find push subscription for user %s: %v", m.ReceiverID.Hex(), err)
			return
		}

		senderName := "Someone"
		if sender, err := userStore.FindByID(ctx, m.SenderID); err == nil && sender.FullName != "" {
			senderName = sender.FullName
		}

		body := m.Text
		if body == "" {
			body = "Sent a photo"
		}
		body = truncatePreview(body, 100)

		payload, err := json.Marshal(map[string]any{
			"title": senderName + " sent a message",
			"body":  body,
			"data": map[string]any{
				"senderId":  m.SenderID.Hex(),
				"timestamp": m.CreatedAt,
			},
		})
		if err != nil {
			log.Printf("Failed to marshal push payload: %v", err)
			return
		}

		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      "mailto:admin@quickchat.local",
			VAPIDPrivateKey: vapidPrivateKey,
			TTL:             30,
		})
		if err != nil {
			log.Printf("Failed to send push notification to user %s: %v", m.ReceiverID.Hex(), err)
			if resp != nil {
				if resp.StatusCode == http.StatusGone {
					if _, delErr := database.PushSubs.DeleteOne(ctx, bson.M{"userId": m.ReceiverID}); delErr != nil {
						log.Printf("Failed to delete expired subscription: %v", delErr)
					}
				}
				resp.Body.Close()
			}
			return
		}
		resp.Body.Close()
	}()
}

// truncatePreview shortens a notification body to at most max runes,
// never splitting a multi-byte character.
func truncatePreview(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"velora/db"
	"velora/models"
	"velora/mq"
	"velora/rdx"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StartWorker subscribes to the order-events channel, persists a
// notification per event and pushes it to the user's open sockets.
// Fire-and-forget: a failed store or push never surfaces to the caller.
func StartWorker(hub *Hub) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, mq.OrderEventsChannel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for order events...")

	for msg := range ch {
		var event models.OrderEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[NotificationWorker] Failed to parse event: %v", err)
			continue
		}

		n := models.Notification{
			NotificationID: utils.GetUUID(),
			UserID:         event.UserID,
			Type:           event.Type,
			Title:          titleFor(event),
			Message:        messageFor(event),
			OrderNumber:    event.OrderNumber,
			CreatedAt:      time.Now(),
		}

		storeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if _, err := db.NotificationsCollection.InsertOne(storeCtx, n); err != nil {
			log.Printf("[NotificationWorker] InsertOne error: %v", err)
		}
		cancel()

		if data, err := json.Marshal(n); err == nil {
			hub.Push(event.UserID, data)
		}
	}
}

func titleFor(event models.OrderEvent) string {
	switch event.Type {
	case mq.EventOrderCreated:
		return "Order placed"
	case mq.EventOrderCancelled:
		return "Order cancelled"
	case mq.EventPaymentUpdated:
		return "Payment update"
	default:
		return "Order update"
	}
}

func messageFor(event models.OrderEvent) string {
	switch event.Type {
	case mq.EventOrderCreated:
		return fmt.Sprintf("Your order %s has been placed.", event.OrderNumber)
	case mq.EventOrderCancelled:
		return fmt.Sprintf("Your order %s was cancelled.", event.OrderNumber)
	case mq.EventPaymentUpdated:
		return fmt.Sprintf("Payment for order %s is now %s.", event.OrderNumber, event.Status)
	default:
		return fmt.Sprintf("Your order %s is now %s.", event.OrderNumber, event.Status)
	}
}

// GetNotifications handles GET /notifications.
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(skip).SetLimit(limit)

	cursor, err := db.NotificationsCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("GetNotifications Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve notifications")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Notification
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetNotifications cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading notifications")
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// MarkRead handles PUT /notifications/:notificationId/read.
func MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.NotificationsCollection.UpdateOne(ctx,
		bson.M{"notificationId": ps.ByName("notificationId"), "userId": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		log.Println("MarkRead error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark notification")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "read"})
}

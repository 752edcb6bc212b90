package reviews

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velora/db"
	"velora/models"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetReviews handles GET /reviews/:productId (public, paginated).
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	productID := ps.ByName("productId")
	page, skip, limit := utils.ParsePagination(r, 10, 100)

	filter := bson.M{"productId": productID}
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.ReviewsCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetReviews Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		log.Println("GetReviews cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	total, _ := db.ReviewsCollection.CountDocuments(ctx, filter)
	resp := utils.M{
		"reviews": reviews,
		"pagination": utils.M{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	}

	// auth is optional here; authenticated callers learn whether they
	// already reviewed this product
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		count, err := db.ReviewsCollection.CountDocuments(ctx, bson.M{"productId": productID, "userId": userID})
		if err == nil {
			resp["hasReviewed"] = count > 0
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// AddReview handles POST /reviews/:productId. One review per user per
// product.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productId")

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if review.Rating < 1 || review.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	count, err := db.ReviewsCollection.CountDocuments(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil {
		log.Println("AddReview CountDocuments error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create review")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this product")
		return
	}

	review.ReviewID = utils.GetUUID()
	review.ProductID = productID
	review.UserID = userID
	review.AdminReply = ""
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		log.Println("AddReview InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create review")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// DeleteReview handles DELETE /reviews/:productId/:reviewId (owner only).
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{
		"reviewId": ps.ByName("reviewId"),
		"userId":   userID,
	})
	if err != nil {
		log.Println("DeleteReview error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}

// AdminReply handles POST /reviews/:productId/:reviewId/reply (admin).
func AdminReply(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reply == "" {
		http.Error(w, "Reply text is required", http.StatusBadRequest)
		return
	}

	res, err := db.ReviewsCollection.UpdateOne(ctx,
		bson.M{"reviewId": ps.ByName("reviewId")},
		bson.M{"$set": bson.M{"adminReply": req.Reply, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("AdminReply error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save reply")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "replied"})
}

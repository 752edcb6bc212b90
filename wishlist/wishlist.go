package wishlist

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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetWishlist handles GET /wishlist. Returns an empty list for users
// without a stored wishlist.
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var wl models.Wishlist
	err := db.WishlistCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wl)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"userId": userID, "productIds": []string{}})
		return
	}
	if err != nil {
		log.Println("GetWishlist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve wishlist")
		return
	}
	if wl.ProductIDs == nil {
		wl.ProductIDs = []string{}
	}
	utils.RespondWithJSON(w, http.StatusOK, wl)
}

// ToggleWishlist handles POST /wishlist/toggle. Adds the product if
// absent, removes it if present.
func ToggleWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}

	var wl models.Wishlist
	err := db.WishlistCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wl)
	if err != nil && err != mongo.ErrNoDocuments {
		log.Println("ToggleWishlist FindOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}

	added := true
	for _, id := range wl.ProductIDs {
		if id == req.ProductID {
			added = false
			break
		}
	}

	var update bson.M
	if added {
		update = bson.M{
			"$addToSet": bson.M{"productIds": req.ProductID},
			"$set":      bson.M{"updatedAt": time.Now()},
		}
	} else {
		update = bson.M{
			"$pull": bson.M{"productIds": req.ProductID},
			"$set":  bson.M{"updatedAt": time.Now()},
		}
	}

	opts := options.Update().SetUpsert(true)
	if _, err := db.WishlistCollection.UpdateOne(ctx, bson.M{"userId": userID}, update, opts); err != nil {
		log.Println("ToggleWishlist UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"productId": req.ProductID, "added": added})
}

// RemoveFromWishlist handles DELETE /wishlist/:productId.
func RemoveFromWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.WishlistCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$pull": bson.M{"productIds": ps.ByName("productId")},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		log.Println("RemoveFromWishlist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Wishlist not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "removed"})
}

package coupon

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"velora/db"
	"velora/models"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ValidateRequest is the dry-run payload: order context only, nothing is
// mutated by this endpoint.
type ValidateRequest struct {
	Code        string    `json:"code"`
	OrderTotal  float64   `json:"orderTotal"`
	ShippingFee float64   `json:"shippingFee"`
	Items       []LineRef `json:"items"`
}

// ValidateCoupon handles POST /coupons/validate.
func ValidateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		utils.RespondWithJSON(w, http.StatusOK, Result{Valid: false, Message: "No coupon provided"})
		return
	}

	c, err := FindByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithJSON(w, http.StatusOK, Result{Valid: false, Message: "Invalid coupon code"})
			return
		}
		log.Println("ValidateCoupon lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not validate coupon")
		return
	}

	result := Evaluate(c, userID, req.OrderTotal, req.ShippingFee, req.Items, time.Now())
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// CreateCoupon handles POST /coupons (admin).
func CreateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var c models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if msg := validateCouponFields(&c); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	c.CouponID = utils.GetUUID()
	c.UsedCount = 0
	c.UsedBy = []string{}
	if c.UsageLimitPerUser <= 0 {
		c.UsageLimitPerUser = 1
	}
	if c.ApplicableProducts == nil {
		c.ApplicableProducts = []string{}
	}
	if c.ApplicableCategories == nil {
		c.ApplicableCategories = []string{}
	}
	if c.ExcludedProducts == nil {
		c.ExcludedProducts = []string{}
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	if _, err := db.CouponCollection.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Coupon code already exists")
			return
		}
		log.Println("CreateCoupon InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create coupon")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, c)
}

// GetCoupons handles GET /coupons (admin), optional ?isActive= filter.
func GetCoupons(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if active := r.URL.Query().Get("isActive"); active != "" {
		filter["isActive"] = active == "true"
	}

	page, skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.CouponCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetCoupons Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve coupons")
		return
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		log.Println("GetCoupons cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading coupons")
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}

	total, _ := db.CouponCollection.CountDocuments(ctx, filter)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"data": coupons,
		"pagination": utils.M{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetCoupon handles GET /coupons/:couponId (admin).
func GetCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var c models.Coupon
	err := db.CouponCollection.FindOne(ctx, bson.M{"couponId": ps.ByName("couponId")}).Decode(&c)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// UpdateCoupon handles PATCH /coupons/:couponId (admin). Only editable
// fields are applied; usage counters are never writable here.
func UpdateCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	allowed := map[string]bool{
		"name": true, "description": true, "discountType": true,
		"discountValue": true, "minOrderValue": true, "maxDiscountAmount": true,
		"startDate": true, "endDate": true, "usageLimit": true,
		"usageLimitPerUser": true, "applicableProducts": true,
		"applicableCategories": true, "excludedProducts": true, "isActive": true,
	}
	update := bson.M{}
	for k, v := range patch {
		if allowed[k] {
			update[k] = v
		}
	}
	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No updatable fields provided")
		return
	}
	update["updatedAt"] = time.Now()

	var c models.Coupon
	err := db.CouponCollection.FindOneAndUpdate(ctx,
		bson.M{"couponId": ps.ByName("couponId")},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
			return
		}
		log.Println("UpdateCoupon error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update coupon")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, c)
}

// DeleteCoupon handles DELETE /coupons/:couponId (admin).
func DeleteCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.CouponCollection.DeleteOne(ctx, bson.M{"couponId": ps.ByName("couponId")})
	if err != nil {
		log.Println("DeleteCoupon error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete coupon")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}

func validateCouponFields(c *models.Coupon) string {
	if c.Code == "" {
		return "Coupon code is required"
	}
	switch c.DiscountType {
	case models.DiscountPercentage, models.DiscountFixed, models.DiscountFreeShipping:
	default:
		return "Invalid discount type"
	}
	if c.DiscountType != models.DiscountFreeShipping && c.DiscountValue <= 0 {
		return "Discount value must be positive"
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() || c.EndDate.Before(c.StartDate) {
		return "Invalid validity window"
	}
	return ""
}

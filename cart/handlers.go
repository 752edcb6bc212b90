package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"velora/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers binds the cart service to HTTP.
type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

// GetCart handles GET /cart.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.svc.GetOrCreate(ctx, userID)
	if err != nil {
		log.Println("GetCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// AddItem handles POST /cart/items.
func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "productId and a positive quantity are required")
		return
	}

	c, err := h.svc.AddItem(ctx, userID, req)
	if err != nil {
		h.respondCartError(w, "AddItem", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

// UpdateItem handles PATCH /cart/items/:itemId.
func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	c, err := h.svc.UpdateItem(ctx, userID, ps.ByName("itemId"), req.Quantity)
	if err != nil {
		h.respondCartError(w, "UpdateItem", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// RemoveItem handles DELETE /cart/items/:itemId.
func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.svc.RemoveItem(ctx, userID, ps.ByName("itemId"))
	if err != nil {
		h.respondCartError(w, "RemoveItem", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// ClearCart handles DELETE /cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.svc.Clear(ctx, userID)
	if err != nil {
		log.Println("ClearCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// ApplyCoupon handles POST /cart/coupon.
func (h *Handlers) ApplyCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		http.Error(w, "Coupon code is required", http.StatusBadRequest)
		return
	}

	c, result, err := h.svc.ApplyCoupon(ctx, userID, req.Code)
	if err != nil {
		log.Println("ApplyCoupon error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to apply coupon")
		return
	}
	if !result.Valid {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"cart": c, "coupon": result})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"cart": c, "coupon": result})
}

// RemoveCoupon handles DELETE /cart/coupon.
func (h *Handlers) RemoveCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.svc.RemoveCoupon(ctx, userID)
	if err != nil {
		log.Println("RemoveCoupon error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove coupon")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handlers) respondCartError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrVariantNotFound), errors.Is(err, ErrItemNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientStock):
		utils.RespondWithError(w, http.StatusConflict, "Insufficient stock")
	default:
		log.Printf("%s error: %v", op, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Cart operation failed")
	}
}

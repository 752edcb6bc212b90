package order

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"velora/payment"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers binds the order service to HTTP.
type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 20*time.Second)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CreateOrder handles POST /orders.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ShippingAddress.FullName == "" || req.ShippingAddress.Phone == "" ||
		req.ShippingAddress.City == "" || req.ShippingAddress.Address == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Incomplete shipping address")
		return
	}
	req.ClientIP = clientIP(r)

	o, err := h.svc.CreateOrder(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, payment.ErrInvalidMethod):
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid payment method")
		case errors.Is(err, ErrNumberConflict):
			utils.RespondWithError(w, http.StatusConflict, "Order number conflict, please retry")
		case errors.Is(err, ErrStockDeduction):
			utils.RespondWithError(w, http.StatusConflict, "Insufficient stock to fulfil the order")
		default:
			log.Println("CreateOrder error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, o)
}

// MyOrders handles GET /orders/my-orders.
func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, skip, limit := utils.ParsePagination(r, 10, 100)
	orders, total, err := h.svc.List(ctx, ListFilter{
		UserID: userID,
		Status: r.URL.Query().Get("status"),
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		log.Println("MyOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"data": orders,
		"pagination": utils.M{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// AllOrders handles GET /orders for admins.
func (h *Handlers) AllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	page, skip, limit := utils.ParsePagination(r, 20, 100)
	orders, total, err := h.svc.List(ctx, ListFilter{
		Status:        r.URL.Query().Get("status"),
		PaymentStatus: r.URL.Query().Get("paymentStatus"),
		Search:        r.URL.Query().Get("search"),
		Skip:          skip,
		Limit:         limit,
	})
	if err != nil {
		log.Println("AllOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"data": orders,
		"pagination": utils.M{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetOrder handles GET /orders/:orderNumber (ownership-checked).
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	o, err := h.svc.GetByNumber(ctx, ps.ByName("orderNumber"), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Println("GetOrder error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

// CancelOrder handles POST /orders/:orderNumber/cancel.
func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	o, err := h.svc.Cancel(ctx, ps.ByName("orderNumber"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, ErrCannotCancel):
			utils.RespondWithError(w, http.StatusConflict, "Order cannot be cancelled")
		default:
			log.Println("CancelOrder error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Cancellation failed")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

// UpdateStatus handles PATCH /orders/:orderNumber/status (admin).
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	var upd StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	o, err := h.svc.UpdateStatus(ctx, ps.ByName("orderNumber"), upd, utils.GetUserIDFromRequest(r))
	if err != nil {
		var invalid *InvalidTransitionError
		switch {
		case errors.Is(err, ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		case errors.As(err, &invalid):
			utils.RespondWithError(w, http.StatusConflict, invalid.Error())
		case errors.Is(err, ErrConcurrentState):
			utils.RespondWithError(w, http.StatusConflict, "Order changed concurrently, retry")
		default:
			log.Println("UpdateStatus error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Status update failed")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

// RetryPaymentURL handles POST /orders/:orderNumber/payment-url.
func (h *Handlers) RetryPaymentURL(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	o, err := h.svc.RetryPaymentURL(ctx, ps.ByName("orderNumber"), userID, clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, ErrPaymentNotOwed):
			utils.RespondWithError(w, http.StatusConflict, "Order has no outstanding online payment")
		default:
			log.Println("RetryPaymentURL error:", err)
			utils.RespondWithError(w, http.StatusBadGateway, "Payment gateway unavailable")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"paymentUrl": o.PaymentURL})
}

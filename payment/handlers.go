package payment

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"velora/utils"

	"github.com/julienschmidt/httprouter"
)

// OrderUpdater applies an authenticated payment result to an order.
// Implemented by the order service; injected to keep this package free
// of order logic.
type OrderUpdater interface {
	HandlePaymentResult(ctx context.Context, orderNumber string, success bool, transactionID string) error
}

// Handlers serves the gateway-facing endpoints. The browser return URLs
// only redirect the customer; the server-to-server IPN endpoints are the
// sole writers of payment state, because a user can reach the return URL
// without paying.
type Handlers struct {
	gateway     *Gateway
	orders      OrderUpdater
	frontendURL string
}

func NewHandlers(gateway *Gateway, orders OrderUpdater, frontendURL string) *Handlers {
	return &Handlers{gateway: gateway, orders: orders, frontendURL: frontendURL}
}

// VNPayCallback handles GET /payments/vnpay/callback (browser return).
func (h *Handlers) VNPayCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	result := h.gateway.VerifyVNPay(r.URL.Query())

	if !result.IsValid {
		log.Println("VNPay callback: invalid signature")
		http.Redirect(w, r, h.frontendURL+"/checkout/failed?error=invalid_signature", http.StatusFound)
		return
	}

	if result.ResponseCode == VNPaySuccessCode {
		http.Redirect(w, r, h.frontendURL+"/checkout/success?orderNumber="+result.OrderNumber, http.StatusFound)
		return
	}
	http.Redirect(w, r, h.frontendURL+"/checkout/failed?orderNumber="+result.OrderNumber+"&code="+result.ResponseCode, http.StatusFound)
}

// VNPayIPN handles POST /payments/vnpay/ipn. VNPay sends the result as
// query parameters on the notification request. Responds with VNPay's own
// code vocabulary so the gateway stops retrying once acknowledged.
func (h *Handlers) VNPayIPN(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	result := h.gateway.VerifyVNPay(r.URL.Query())
	if !result.IsValid {
		log.Println("VNPay IPN: invalid signature")
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"RspCode": "97", "Message": "Invalid signature"})
		return
	}

	success := result.ResponseCode == VNPaySuccessCode
	if err := h.orders.HandlePaymentResult(ctx, result.OrderNumber, success, result.TransactionNo); err != nil {
		log.Printf("VNPay IPN: apply result for order %s: %v", result.OrderNumber, err)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"RspCode": "01", "Message": "Order not found"})
		return
	}

	if success {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"RspCode": "00", "Message": "Success"})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"RspCode": "01", "Message": "Payment failed"})
}

// MoMoCallback handles GET /payments/momo/callback (browser return).
// MoMo sends the result fields as query parameters on the redirect.
func (h *Handlers) MoMoCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	ipn := MoMoIPN{
		PartnerCode:  q.Get("partnerCode"),
		OrderID:      q.Get("orderId"),
		RequestID:    q.Get("requestId"),
		Amount:       parseInt64(q.Get("amount")),
		OrderInfo:    q.Get("orderInfo"),
		OrderType:    q.Get("orderType"),
		TransID:      parseInt64(q.Get("transId")),
		ResultCode:   int(parseInt64(q.Get("resultCode"))),
		Message:      q.Get("message"),
		PayType:      q.Get("payType"),
		ResponseTime: parseInt64(q.Get("responseTime")),
		ExtraData:    q.Get("extraData"),
		Signature:    q.Get("signature"),
	}

	result := h.gateway.VerifyMoMo(ipn)
	if result.IsValid && result.ResultCode == MoMoSuccessCode {
		http.Redirect(w, r, h.frontendURL+"/checkout/success?orderNumber="+result.OrderNumber, http.StatusFound)
		return
	}
	http.Redirect(w, r, h.frontendURL+"/checkout/failed?orderNumber="+result.OrderNumber, http.StatusFound)
}

// MoMoIPNHandler handles POST /payments/momo/ipn.
func (h *Handlers) MoMoIPNHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var ipn MoMoIPN
	if err := json.NewDecoder(r.Body).Decode(&ipn); err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"resultCode": 1, "message": "Invalid payload"})
		return
	}

	result := h.gateway.VerifyMoMo(ipn)
	if !result.IsValid {
		log.Println("MoMo IPN: invalid signature")
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"resultCode": 1, "message": "Invalid signature"})
		return
	}

	success := result.ResultCode == MoMoSuccessCode
	if err := h.orders.HandlePaymentResult(ctx, result.OrderNumber, success, result.TransID); err != nil {
		log.Printf("MoMo IPN: apply result for order %s: %v", result.OrderNumber, err)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"resultCode": 1, "message": "Order not found"})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"resultCode": 0, "message": "Success"})
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

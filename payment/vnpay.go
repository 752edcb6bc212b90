package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"

	"velora/models"
)

// VNPay response code signalling a successful payment.
const VNPaySuccessCode = "00"

// VNPayResult is the outcome of verifying a VNPay callback. IsValid only
// proves the message originated at the gateway; payment success is the
// response code, and only the IPN path may flip order state.
type VNPayResult struct {
	IsValid       bool
	OrderNumber   string
	Amount        float64
	ResponseCode  string
	TransactionNo string
	BankCode      string
}

// createVNPayURL builds the redirect URL: flat parameter map, keys
// sorted lexicographically, percent-encoded, HMAC-SHA512 over the
// encoded string, hash appended as vnp_SecureHash. The signed string is
// reused verbatim in the final URL.
func (g *Gateway) createVNPayURL(order *models.Order, clientIP string) string {
	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", g.vnpay.TmnCode)
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", order.OrderNumber)
	params.Set("vnp_OrderInfo", "Thanh toan don hang "+order.OrderNumber)
	params.Set("vnp_OrderType", "fashion")
	// VNPay amounts are scaled by 100
	params.Set("vnp_Amount", strconv.FormatInt(int64(order.Total*100), 10))
	params.Set("vnp_ReturnUrl", g.vnpay.ReturnURL)
	params.Set("vnp_IpAddr", clientIP)
	params.Set("vnp_CreateDate", g.now().Format("20060102150405"))

	signData := params.Encode()
	hash := hmacSHA512(g.vnpay.HashSecret, signData)

	return g.vnpay.URL + "?" + signData + "&vnp_SecureHash=" + hash
}

// VerifyVNPay recomputes the signature over the received parameters,
// excluding the hash fields, and compares byte-for-byte.
func (g *Gateway) VerifyVNPay(received url.Values) VNPayResult {
	supplied := received.Get("vnp_SecureHash")

	params := url.Values{}
	for key, vals := range received {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		for _, v := range vals {
			params.Add(key, v)
		}
	}

	expected := hmacSHA512(g.vnpay.HashSecret, params.Encode())
	amount, _ := strconv.ParseFloat(received.Get("vnp_Amount"), 64)

	return VNPayResult{
		IsValid:       supplied != "" && hmac.Equal([]byte(supplied), []byte(expected)),
		OrderNumber:   received.Get("vnp_TxnRef"),
		Amount:        amount / 100,
		ResponseCode:  received.Get("vnp_ResponseCode"),
		TransactionNo: received.Get("vnp_TransactionNo"),
		BankCode:      received.Get("vnp_BankCode"),
	}
}

func hmacSHA512(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	fmt.Fprint(mac, data)
	return hex.EncodeToString(mac.Sum(nil))
}

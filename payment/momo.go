package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"velora/models"
)

// MoMo result code signalling success.
const MoMoSuccessCode = 0

// MoMoIPN is the JSON body MoMo posts to the IPN endpoint.
type MoMoIPN struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// MoMoResult is the outcome of verifying a MoMo callback.
type MoMoResult struct {
	IsValid     bool
	OrderNumber string
	Amount      float64
	ResultCode  int
	TransID     string
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

// createMoMoURL signs a fixed-order parameter string with HMAC-SHA256
// and posts the create-payment request. On any non-zero result code the
// gateway's own message is surfaced.
func (g *Gateway) createMoMoURL(ctx context.Context, order *models.Order) (string, error) {
	requestID := fmt.Sprintf("%d-%s", g.now().UnixMilli(), order.OrderNumber)
	amount := strconv.FormatInt(int64(order.Total), 10)
	orderInfo := "Thanh toan don hang " + order.OrderNumber
	extraData := ""

	rawSignature := fmt.Sprintf(
		"accessKey=%s&amount=%s&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=captureWallet",
		g.momo.AccessKey, amount, extraData, g.momo.IpnURL, order.OrderNumber,
		orderInfo, g.momo.PartnerCode, g.momo.RedirectURL, requestID,
	)
	signature := hmacSHA256(g.momo.SecretKey, rawSignature)

	body, err := json.Marshal(momoCreateRequest{
		PartnerCode: g.momo.PartnerCode,
		AccessKey:   g.momo.AccessKey,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     order.OrderNumber,
		OrderInfo:   orderInfo,
		RedirectURL: g.momo.RedirectURL,
		IpnURL:      g.momo.IpnURL,
		ExtraData:   extraData,
		RequestType: "captureWallet",
		Signature:   signature,
		Lang:        "vi",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.momo.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("momo request failed: %w", err)
	}
	defer resp.Body.Close()

	var out momoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("momo response decode: %w", err)
	}
	if out.ResultCode != MoMoSuccessCode {
		return "", fmt.Errorf("momo error %d: %s", out.ResultCode, out.Message)
	}
	return out.PayURL, nil
}

// VerifyMoMo recomputes the IPN signature over MoMo's fixed field order
// and compares byte-for-byte.
func (g *Gateway) VerifyMoMo(ipn MoMoIPN) MoMoResult {
	rawSignature := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		g.momo.AccessKey, ipn.Amount, ipn.ExtraData, ipn.Message, ipn.OrderID,
		ipn.OrderInfo, ipn.OrderType, ipn.PartnerCode, ipn.PayType,
		ipn.RequestID, ipn.ResponseTime, ipn.ResultCode, ipn.TransID,
	)
	expected := hmacSHA256(g.momo.SecretKey, rawSignature)

	return MoMoResult{
		IsValid:     ipn.Signature != "" && hmac.Equal([]byte(ipn.Signature), []byte(expected)),
		OrderNumber: ipn.OrderID,
		Amount:      float64(ipn.Amount),
		ResultCode:  ipn.ResultCode,
		TransID:     strconv.FormatInt(ipn.TransID, 10),
	}
}

func hmacSHA256(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprint(mac, data)
	return hex.EncodeToString(mac.Sum(nil))
}

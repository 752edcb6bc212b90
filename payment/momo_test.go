package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedMoMoIPN(g *Gateway, resultCode int) MoMoIPN {
	ipn := MoMoIPN{
		PartnerCode:  g.momo.PartnerCode,
		OrderID:      "ORD-TEST123-AB12",
		RequestID:    "req-1",
		Amount:       550000,
		OrderInfo:    "Thanh toan don hang ORD-TEST123-AB12",
		OrderType:    "momo_wallet",
		TransID:      4088878653,
		ResultCode:   resultCode,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1760000000000,
		ExtraData:    "",
	}
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		g.momo.AccessKey, ipn.Amount, ipn.ExtraData, ipn.Message, ipn.OrderID,
		ipn.OrderInfo, ipn.OrderType, ipn.PartnerCode, ipn.PayType,
		ipn.RequestID, ipn.ResponseTime, ipn.ResultCode, ipn.TransID,
	)
	ipn.Signature = hmacSHA256(g.momo.SecretKey, raw)
	return ipn
}

func TestVerifyMoMoValidSignature(t *testing.T) {
	g := testGateway()
	res := g.VerifyMoMo(signedMoMoIPN(g, 0))

	assert.True(t, res.IsValid)
	assert.Equal(t, "ORD-TEST123-AB12", res.OrderNumber)
	assert.Equal(t, 550000.0, res.Amount)
	assert.Equal(t, 0, res.ResultCode)
	assert.Equal(t, "4088878653", res.TransID)
}

func TestVerifyMoMoRejectsTamperedAmount(t *testing.T) {
	g := testGateway()
	ipn := signedMoMoIPN(g, 0)
	ipn.Amount = 1

	res := g.VerifyMoMo(ipn)
	assert.False(t, res.IsValid)
}

func TestVerifyMoMoRejectsMissingSignature(t *testing.T) {
	g := testGateway()
	ipn := signedMoMoIPN(g, 0)
	ipn.Signature = ""

	res := g.VerifyMoMo(ipn)
	assert.False(t, res.IsValid)
}

func TestCreateMoMoURLSuccess(t *testing.T) {
	g := testGateway()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req momoCreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "MOMOTEST", req.PartnerCode)
		assert.Equal(t, "ORD-TEST123-AB12", req.OrderID)
		assert.Equal(t, "550000", req.Amount)
		assert.Equal(t, "captureWallet", req.RequestType)
		assert.NotEmpty(t, req.Signature)

		json.NewEncoder(w).Encode(momoCreateResponse{
			ResultCode: 0,
			Message:    "Successful.",
			PayURL:     "https://test-payment.momo.vn/pay/abc",
		})
	}))
	defer srv.Close()
	g.momo.Endpoint = srv.URL

	payURL, err := g.createMoMoURL(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "https://test-payment.momo.vn/pay/abc", payURL)
}

func TestCreateMoMoURLGatewayError(t *testing.T) {
	g := testGateway()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(momoCreateResponse{
			ResultCode: 41,
			Message:    "Duplicated orderId",
		})
	}))
	defer srv.Close()
	g.momo.Endpoint = srv.URL

	_, err := g.createMoMoURL(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicated orderId")
}

func TestCreatePaymentURLUnknownMethod(t *testing.T) {
	g := testGateway()
	_, err := g.CreatePaymentURL(context.Background(), testOrder(), "paypal", "1.2.3.4")
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

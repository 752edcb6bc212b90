package payment

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"velora/config"
	"velora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway() *Gateway {
	g := NewGateway(
		config.VNPay{
			TmnCode:    "TESTCODE",
			HashSecret: "secret-key",
			URL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:  "http://localhost:8080/api/v1/payments/vnpay/callback",
		},
		config.MoMo{
			PartnerCode: "MOMOTEST",
			AccessKey:   "access-key",
			SecretKey:   "momo-secret",
			Endpoint:    "https://test-payment.momo.vn/v2/gateway/api/create",
			RedirectURL: "http://localhost:8080/api/v1/payments/momo/callback",
			IpnURL:      "http://localhost:8080/api/v1/payments/momo/ipn",
		},
	)
	g.now = func() time.Time {
		return time.Date(2026, 1, 15, 14, 30, 45, 0, time.UTC)
	}
	return g
}

func testOrder() *models.Order {
	return &models.Order{
		OrderNumber: "ORD-TEST123-AB12",
		Total:       550000,
	}
}

func TestCreateVNPayURLParams(t *testing.T) {
	g := testGateway()
	raw := g.createVNPayURL(testOrder(), "192.168.1.10")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, g.vnpay.URL+"?"))

	q := u.Query()
	assert.Equal(t, "2.1.0", q.Get("vnp_Version"))
	assert.Equal(t, "pay", q.Get("vnp_Command"))
	assert.Equal(t, "TESTCODE", q.Get("vnp_TmnCode"))
	assert.Equal(t, "ORD-TEST123-AB12", q.Get("vnp_TxnRef"))
	assert.Equal(t, "55000000", q.Get("vnp_Amount"), "amount is scaled by 100")
	assert.Equal(t, "20260115143045", q.Get("vnp_CreateDate"))
	assert.Equal(t, "192.168.1.10", q.Get("vnp_IpAddr"))
	assert.NotEmpty(t, q.Get("vnp_SecureHash"))
}

func TestVNPayRoundTripVerifies(t *testing.T) {
	g := testGateway()
	raw := g.createVNPayURL(testOrder(), "10.0.0.1")

	u, err := url.Parse(raw)
	require.NoError(t, err)

	res := g.VerifyVNPay(u.Query())
	assert.True(t, res.IsValid)
	assert.Equal(t, "ORD-TEST123-AB12", res.OrderNumber)
	assert.Equal(t, 550000.0, res.Amount)
}

func TestVerifyVNPayRejectsTamperedParam(t *testing.T) {
	g := testGateway()
	raw := g.createVNPayURL(testOrder(), "10.0.0.1")

	u, _ := url.Parse(raw)
	q := u.Query()
	q.Set("vnp_Amount", "100") // attacker lowers the amount

	res := g.VerifyVNPay(q)
	assert.False(t, res.IsValid)
}

func TestVerifyVNPayRejectsTamperedSignature(t *testing.T) {
	g := testGateway()
	raw := g.createVNPayURL(testOrder(), "10.0.0.1")

	u, _ := url.Parse(raw)
	q := u.Query()
	sig := q.Get("vnp_SecureHash")
	flipped := "0"
	if sig[0] == '0' {
		flipped = "1"
	}
	q.Set("vnp_SecureHash", flipped+sig[1:])

	res := g.VerifyVNPay(q)
	assert.False(t, res.IsValid)
}

func TestVerifyVNPayRejectsMissingSignature(t *testing.T) {
	g := testGateway()
	q := url.Values{}
	q.Set("vnp_TxnRef", "ORD-X-YYYY")
	q.Set("vnp_ResponseCode", "00")

	res := g.VerifyVNPay(q)
	assert.False(t, res.IsValid)
}

func TestVerifyVNPayIgnoresSecureHashType(t *testing.T) {
	g := testGateway()
	raw := g.createVNPayURL(testOrder(), "10.0.0.1")

	u, _ := url.Parse(raw)
	q := u.Query()
	// gateways may append this field without including it in the signature
	q.Set("vnp_SecureHashType", "HMACSHA512")

	res := g.VerifyVNPay(q)
	assert.True(t, res.IsValid)
}

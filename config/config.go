package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// VNPay holds merchant credentials and endpoints for the VNPay gateway.
type VNPay struct {
	TmnCode    string
	HashSecret string
	URL        string
	ReturnURL  string
}

// MoMo holds partner credentials and endpoints for the MoMo gateway.
type MoMo struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	RedirectURL string
	IpnURL      string
}

// Catalog points at the headless CMS that owns products and stock.
type Catalog struct {
	URL      string
	APIToken string
}

// Shipping controls the fee computation at checkout.
type Shipping struct {
	FlatFee            float64
	FreeShippingCities []string
}

type Config struct {
	Port        string
	MongoURI    string
	RedisAddr   string
	FrontendURL string
	VNPay       VNPay
	MoMo        MoMo
	Catalog     Catalog
	Shipping    Shipping

	// StrictStock aborts order creation when a stock deduction fails
	// instead of logging and continuing.
	StrictStock bool
}

// Load reads the environment once at startup. Components receive the
// resulting structs through their constructors.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	return &Config{
		Port:        envOr("PORT", ":8080"),
		MongoURI:    envOr("MONGODB_URI", "mongodb://localhost:27017"),
		RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),
		FrontendURL: envOr("FRONTEND_URL", "http://localhost:3000"),
		VNPay: VNPay{
			TmnCode:    os.Getenv("VNPAY_TMN_CODE"),
			HashSecret: os.Getenv("VNPAY_HASH_SECRET"),
			URL:        envOr("VNPAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			ReturnURL:  envOr("VNPAY_RETURN_URL", "http://localhost:8080/api/v1/payments/vnpay/callback"),
		},
		MoMo: MoMo{
			PartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
			AccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
			SecretKey:   os.Getenv("MOMO_SECRET_KEY"),
			Endpoint:    envOr("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
			RedirectURL: envOr("MOMO_REDIRECT_URL", "http://localhost:8080/api/v1/payments/momo/callback"),
			IpnURL:      envOr("MOMO_IPN_URL", "http://localhost:8080/api/v1/payments/momo/ipn"),
		},
		Catalog: Catalog{
			URL:      envOr("CATALOG_URL", "http://localhost:1337"),
			APIToken: os.Getenv("CATALOG_API_TOKEN"),
		},
		Shipping: Shipping{
			FlatFee:            envFloat("SHIPPING_FLAT_FEE", 30000),
			FreeShippingCities: envList("FREE_SHIPPING_CITIES", []string{"Hồ Chí Minh", "Ho Chi Minh", "HCM"}),
		},
		StrictStock: envBool("STRICT_STOCK", false),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("config: invalid float for %s, using default", key)
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("config: invalid bool for %s, using default", key)
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

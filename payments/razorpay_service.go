package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	config "github.com/avinash2305/wellness_platform/configs"
)

var razorpayBaseURL = "https://api.razorpay.com/v1"

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CheckoutOptions is what clients need to open the hosted checkout widget
// for a freshly created order.
type CheckoutOptions struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// ToMinorUnits converts a rupee amount to paise. The gateway speaks minor
// units everywhere; this is the only place the conversion happens.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func KeyID() string {
	return config.Config("RAZORPAY_KEY_ID")
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder registers a gateway order for amountMinor paise. Every checkout
// attempt gets a fresh order; a consumed or abandoned order is never reused.
func CreateOrder(amountMinor int64, currency, receipt string) (*Order, error) {
	payload := createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %v", err)
	}

	req, err := http.NewRequest("POST", razorpayBaseURL+"/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %v", err)
	}
	req.SetBasicAuth(config.Config("RAZORPAY_KEY_ID"), config.Config("RAZORPAY_KEY_SECRET"))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send order request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("razorpay order API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %v", err)
	}
	return &order, nil
}

// FetchPayment looks a payment up on the gateway, used to double-check state
// when a webhook and a client verify race each other.
func FetchPayment(paymentID string) (map[string]any, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/payments/%s", razorpayBaseURL, paymentID), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(config.Config("RAZORPAY_KEY_ID"), config.Config("RAZORPAY_KEY_SECRET"))

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("razorpay payment fetch returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var payment map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// VerifyPaymentSignature checks the signature the checkout widget hands back
// after a successful payment: HMAC-SHA256 of "<order_id>|<payment_id>" under
// the key secret. Every payment path goes through this before any state
// changes; a client-side success callback alone is never trusted.
func VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return verifyHMAC(orderID+"|"+paymentID, signature, config.Config("RAZORPAY_KEY_SECRET"))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw webhook body.
func VerifyWebhookSignature(body []byte, signature string) bool {
	return verifyHMAC(string(body), signature, config.Config("RAZORPAY_WEBHOOK_SECRET"))
}

func verifyHMAC(message, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

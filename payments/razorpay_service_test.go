package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected int64
	}{
		{name: "whole rupees", amount: 500, expected: 50000},
		{name: "with paise", amount: 499.99, expected: 49999},
		{name: "floating point artifact", amount: 0.1 + 0.2, expected: 30},
		{name: "zero", amount: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToMinorUnits(tt.amount))
		})
	}
}

func TestCreateOrder(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "test_secret", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(50000), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		json.NewEncoder(w).Encode(Order{
			ID:       "order_ABC123",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	prev := razorpayBaseURL
	razorpayBaseURL = srv.URL
	defer func() { razorpayBaseURL = prev }()

	order, err := CreateOrder(50000, "INR", "booking-1")
	require.NoError(t, err)
	assert.Equal(t, "order_ABC123", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
}

// Every retry registers a fresh order; the gateway is hit once per call.
func TestCreateOrderFreshPerAttempt(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(Order{ID: "order_" + string(rune('A'+calls)), Amount: 50000, Currency: "INR", Status: "created"})
	}))
	defer srv.Close()

	prev := razorpayBaseURL
	razorpayBaseURL = srv.URL
	defer func() { razorpayBaseURL = prev }()

	first, err := CreateOrder(50000, "INR", "booking-1")
	require.NoError(t, err)
	second, err := CreateOrder(50000, "INR", "booking-1")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFetchPayment(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_XYZ789", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": "pay_XYZ789", "status": "captured"})
	}))
	defer srv.Close()

	prev := razorpayBaseURL
	razorpayBaseURL = srv.URL
	defer func() { razorpayBaseURL = prev }()

	payment, err := FetchPayment("pay_XYZ789")
	require.NoError(t, err)
	assert.Equal(t, "captured", payment["status"])
}

func TestVerifyPaymentSignature(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	orderID := "order_ABC123"
	paymentID := "pay_XYZ789"
	valid := signPayload(orderID+"|"+paymentID, "test_secret")

	assert.True(t, VerifyPaymentSignature(orderID, paymentID, valid))
	assert.False(t, VerifyPaymentSignature(orderID, paymentID, "tampered"))
	assert.False(t, VerifyPaymentSignature(orderID, "pay_other", valid))
	assert.False(t, VerifyPaymentSignature(orderID, paymentID, ""))
}

func TestVerifyPaymentSignatureNoSecret(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "")

	sig := signPayload("order_A|pay_B", "")
	assert.False(t, VerifyPaymentSignature("order_A", "pay_B", sig))
}

func TestVerifyWebhookSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "webhook_secret")

	body := []byte(`{"event":"payment.captured","payload":{}}`)
	valid := signPayload(string(body), "webhook_secret")

	assert.True(t, VerifyWebhookSignature(body, valid))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"payment.captured"}`), valid))
	assert.False(t, VerifyWebhookSignature(body, "bogus"))
}

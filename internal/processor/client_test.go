package processor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentSubmitsChargeWithFee(t *testing.T) {
	var gotAuth, gotIdem string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("X-Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 987654, "status": "pending"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "token-abc", 2*time.Second)
	payment, err := c.CreatePayment(context.Background(), ChargeRequest{
		TransactionAmountCents: 1000,
		Token:                  "card-token",
		PaymentMethodID:        "visa",
		Installments:           1,
		PayerEmail:             "client@example.com",
		ApplicationFeeCents:    50,
		IdempotencyKey:         "key-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "987654", payment.ID, "numeric processor id is carried as a string")
	assert.Equal(t, StatusPending, payment.Status)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "key-1", gotIdem)
	assert.EqualValues(t, 1000, gotBody["transaction_amount"])
	assert.EqualValues(t, 50, gotBody["application_fee"])
	payer, ok := gotBody["payer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "client@example.com", payer["email"])
}

func TestCreatePaymentSurfacesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid card token"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "token-abc", 2*time.Second)
	payment, err := c.CreatePayment(context.Background(), ChargeRequest{TransactionAmountCents: 1000})
	assert.Nil(t, payment)

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusBadRequest, rej.StatusCode)
	assert.Contains(t, rej.Body, "invalid card token")
}

func TestGetPaymentFetchesAuthoritativeStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/payments/987654", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 987654, "status": "approved"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "token-abc", 2*time.Second)
	payment, err := c.GetPayment(context.Background(), "987654")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, payment.Status)
}

func TestGetPaymentRejectsNonNumericID(t *testing.T) {
	// Never interpolate unvalidated webhook input into the request path.
	c := New("http://localhost:0", "token-abc", time.Second)
	_, err := c.GetPayment(context.Background(), "../admin")
	assert.Error(t, err)
}

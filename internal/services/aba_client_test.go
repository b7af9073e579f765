package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderPassesBodyThrough(t *testing.T) {
	var gotPath string
	var gotBody OrderRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"order": {"orderNo": "#1001", "status": "created"}}`))
	}))
	defer srv.Close()

	client := NewABAClient(srv.URL, "merchant-1", "secret")
	raw, err := client.CreateOrder(context.Background(), OrderRequest{
		Currency: "KHR",
		Amount:   23000,
		Name:     "Sokha",
	})
	require.NoError(t, err)

	assert.Equal(t, "/create/order", gotPath)
	assert.Equal(t, "Sokha", gotBody.Name)
	assert.JSONEq(t, `{"order": {"orderNo": "#1001", "status": "created"}}`, string(raw))
}

func TestRequestPaymentSignsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		merchant := r.Header.Get("X-Merchant-Id")
		reqTime := r.Header.Get("X-Request-Time")
		assert.Equal(t, "merchant-1", merchant)
		assert.NotEmpty(t, reqTime)
		assert.Equal(t, MerchantHash("secret", merchant+reqTime), r.Header.Get("X-Merchant-Hash"))

		_, _ = w.Write([]byte(`{"paymentId": "pay-1", "qrString": "00020101..."}`))
	}))
	defer srv.Close()

	client := NewABAClient(srv.URL, "merchant-1", "secret")
	resp, err := client.RequestPayment(context.Background(), OrderRequest{Currency: "KHR", Amount: 23000})
	require.NoError(t, err)

	assert.Equal(t, "pay-1", resp.PaymentID)
	assert.Equal(t, "00020101...", resp.QRString)
}

func TestRequestPaymentRejectsMissingPaymentID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"qrString": "x"}`))
	}))
	defer srv.Close()

	client := NewABAClient(srv.URL, "merchant-1", "secret")
	_, err := client.RequestPayment(context.Background(), OrderRequest{})
	assert.Error(t, err)
}

func TestPaymentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment/status/pay-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": "paid"}`))
	}))
	defer srv.Close()

	client := NewABAClient(srv.URL, "merchant-1", "secret")
	status, err := client.PaymentStatus(context.Background(), "pay-1")
	require.NoError(t, err)
	assert.Equal(t, "paid", status)
}

func TestNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewABAClient(srv.URL, "merchant-1", "secret")
	_, err := client.CreateOrder(context.Background(), OrderRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

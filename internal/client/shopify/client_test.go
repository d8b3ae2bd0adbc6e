package shopify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://shop.myshopify.com", BaseURL("shop.myshopify.com/"))
	assert.Equal(t, "http://127.0.0.1:9999", BaseURL("http://127.0.0.1:9999"))
}

func TestOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-01/orders.json", r.URL.Path)
		assert.Equal(t, "shpat", r.Header.Get("X-Shopify-Access-Token"))
		q := r.URL.Query()
		assert.Equal(t, "250", q.Get("limit"))
		assert.Equal(t, "any", q.Get("status"))
		assert.Equal(t, "created_at desc", q.Get("order"))
		assert.Equal(t, "2026-01-01", q.Get("created_at_min"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[{"id":1,"order_number":1001,"total_price":"19.99","financial_status":"paid","customer":{"first_name":"Ann"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "shpat", "")
	orders, err := c.Orders(context.Background(), OrderQuery{Limit: 1000, CreatedAtMin: "2026-01-01"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1001), orders[0].OrderNumber)
	assert.Equal(t, "Ann", orders[0].Customer.FirstName)
}

func TestOrders_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":"[API] Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad", "2024-01").Orders(context.Background(), OrderQuery{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

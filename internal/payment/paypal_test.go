package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayPal struct {
	tokenStatus int
	orderStatus string
	amount      string
	currency    string
	httpStatus  int
}

func (f *fakePayPal) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v1/oauth2/token":
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			require.Equal(t, "client-id", user)
			require.Equal(t, "client-secret", pass)
			if f.tokenStatus != 0 {
				w.WriteHeader(f.tokenStatus)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok_123"})
		case r.URL.Path == "/v2/checkout/orders/pp_order_1":
			require.Equal(t, "Bearer tok_123", r.Header.Get("Authorization"))
			if f.httpStatus != 0 {
				w.WriteHeader(f.httpStatus)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "pp_order_1",
				"status": f.orderStatus,
				"purchase_units": []map[string]any{
					{"amount": map[string]string{"value": f.amount, "currency_code": f.currency}},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestPayPal(t *testing.T, baseURL string) *PayPalAdapter {
	t.Helper()
	a, err := NewPayPalAdapter(PayPalConfig{ClientID: "client-id", Secret: "client-secret", BaseURL: baseURL})
	require.NoError(t, err)
	return a
}

func TestNewPayPalAdapterRequiresCredentials(t *testing.T) {
	_, err := NewPayPalAdapter(PayPalConfig{ClientID: "client-id"})
	require.Error(t, err)
	_, err = NewPayPalAdapter(PayPalConfig{Secret: "client-secret"})
	require.Error(t, err)
}

func TestPayPalCheckoutURL(t *testing.T) {
	a := newTestPayPal(t, "http://unused")

	raw := a.CheckoutURL(CheckoutParams{
		OrderID:      "order_1",
		Amount:       decimal.NewFromFloat(149.99),
		Currency:     "USD",
		OrderName:    "Premium Wireless Earbuds",
		CustomerName: "Alice Martin",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/payment/paypal", u.Path)
	q := u.Query()
	assert.Equal(t, "149.99", q.Get("amount"))
	assert.Equal(t, "USD", q.Get("currency"))
}

func TestPayPalRequestPaymentCompleted(t *testing.T) {
	gw := (&fakePayPal{orderStatus: "COMPLETED", amount: "149.99", currency: "USD"}).server(t)
	defer gw.Close()

	a := newTestPayPal(t, gw.URL)
	res, err := a.RequestPayment(context.Background(), RequestParams{
		OrderID:  "pp_order_1",
		Amount:   decimal.NewFromFloat(149.99),
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "pp_order_1", res.TransactionID)
	assert.Equal(t, "COMPLETED", res.GatewayStatus)
}

func TestPayPalRequestPaymentNotCompleted(t *testing.T) {
	gw := (&fakePayPal{orderStatus: "CREATED", amount: "149.99", currency: "USD"}).server(t)
	defer gw.Close()

	a := newTestPayPal(t, gw.URL)
	res, err := a.RequestPayment(context.Background(), RequestParams{
		OrderID:  "pp_order_1",
		Amount:   decimal.NewFromFloat(149.99),
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "PayPal order verification failed.", res.Message)
}

func TestPayPalRequestPaymentAmountMismatch(t *testing.T) {
	gw := (&fakePayPal{orderStatus: "COMPLETED", amount: "1.00", currency: "USD"}).server(t)
	defer gw.Close()

	a := newTestPayPal(t, gw.URL)
	res, err := a.RequestPayment(context.Background(), RequestParams{
		OrderID:  "pp_order_1",
		Amount:   decimal.NewFromFloat(149.99),
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Amount or currency mismatch.", res.Message)
}

func TestPayPalRequestPaymentCurrencyMismatch(t *testing.T) {
	gw := (&fakePayPal{orderStatus: "COMPLETED", amount: "149.99", currency: "EUR"}).server(t)
	defer gw.Close()

	a := newTestPayPal(t, gw.URL)
	res, err := a.RequestPayment(context.Background(), RequestParams{
		OrderID:  "pp_order_1",
		Amount:   decimal.NewFromFloat(149.99),
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Amount or currency mismatch.", res.Message)
}

func TestPayPalRequestPaymentAuthFailure(t *testing.T) {
	gw := (&fakePayPal{tokenStatus: http.StatusUnauthorized}).server(t)
	defer gw.Close()

	a := newTestPayPal(t, gw.URL)
	res, err := a.RequestPayment(context.Background(), RequestParams{
		OrderID:  "pp_order_1",
		Amount:   decimal.NewFromFloat(149.99),
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "PayPal authentication failed.", res.Message)
}

func TestPayPalRequestPaymentTokenTransportFailure(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	gw.Close() // connection refused

	a := newTestPayPal(t, gw.URL)
	res, err := a.RequestPayment(context.Background(), RequestParams{
		OrderID:  "pp_order_1",
		Amount:   decimal.NewFromFloat(149.99),
		Currency: "USD",
	})
	require.Error(t, err, "unreachable gateway is a transport failure, not an auth rejection")
	assert.False(t, res.Success)
	assert.Empty(t, res.Message)
}

func TestPayPalCancelPaymentTokenTransportFailure(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	gw.Close() // connection refused

	a := newTestPayPal(t, gw.URL)
	res, err := a.CancelPayment(context.Background(), "pp_order_1")
	require.Error(t, err)
	assert.False(t, res.Success)
}

func TestPayPalRequestPaymentOrderLookupRejected(t *testing.T) {
	gw := (&fakePayPal{httpStatus: http.StatusNotFound}).server(t)
	defer gw.Close()

	a := newTestPayPal(t, gw.URL)
	res, err := a.RequestPayment(context.Background(), RequestParams{
		OrderID:  "pp_order_1",
		Amount:   decimal.NewFromFloat(149.99),
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "PayPal order verification failed.", res.Message)
}

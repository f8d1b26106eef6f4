package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domorder "example.com/dukatech/client/internal/domain/order"
	"example.com/dukatech/client/internal/infra/rest"
)

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

func newCheckoutService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rc, err := rest.NewClient(srv.URL, staticTokens("tok-1"), srv.Client())
	require.NoError(t, err)
	return NewService(rc)
}

func validInput() Input {
	return Input{
		Shipping: domorder.Shipping{
			FullName: "Wanjiru Kamau",
			Phone:    "+254700000000",
			Address1: "Moi Avenue 12",
			City:     "Nairobi",
			Country:  "KE",
		},
		PaymentMethod: domorder.PaymentMpesa,
	}
}

func TestValidate_ReturnsServerTotals(t *testing.T) {
	var auth string
	r := chi.NewRouter()
	r.Post("/api/checkout/validate/", func(w http.ResponseWriter, req *http.Request) {
		auth = req.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok": true, "totals": {"subtotal": "1198.00", "shipping_fee": "250.00", "total": "1448.00"}}`))
	})
	svc := newCheckoutService(t, r)

	totals, err := svc.Validate(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-1", auth)
	require.True(t, totals.Subtotal.Equal(decimal.RequireFromString("1198.00")))
	require.True(t, totals.ShippingFee.Equal(decimal.RequireFromString("250")))
	require.True(t, totals.Total.Equal(decimal.RequireFromString("1448")))
}

func TestValidate_EmptyCartMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/checkout/validate/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Your cart is empty."}`))
	})
	svc := newCheckoutService(t, r)

	_, err := svc.Validate(context.Background())
	require.EqualError(t, err, "Your cart is empty.")
}

func TestCreate_PlacesOrder(t *testing.T) {
	var got Input
	r := chi.NewRouter()
	r.Post("/api/checkout/", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 31, "status": "PENDING", "total": "1448.00"}`))
	})
	svc := newCheckoutService(t, r)

	placed, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, "Wanjiru Kamau", got.Shipping.FullName)
	require.Equal(t, domorder.PaymentMpesa, got.PaymentMethod)
	require.Equal(t, int64(31), placed.ID)
	require.Equal(t, domorder.StatusPending, placed.Status)
	require.True(t, placed.Total.Equal(decimal.RequireFromString("1448")))
}

func TestCreate_RejectsUnknownPaymentMethod(t *testing.T) {
	svc := newCheckoutService(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("invalid payment method must not reach the server")
	}))

	in := validInput()
	in.PaymentMethod = "cheque"
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, domorder.ErrInvalidPayment)
}

func TestCreate_RejectsIncompleteShipping(t *testing.T) {
	svc := newCheckoutService(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("invalid input must not reach the server")
	}))

	in := validInput()
	in.Shipping.City = ""
	_, err := svc.Create(context.Background(), in)
	var verr validator.ValidationErrors
	require.ErrorAs(t, err, &verr)
}

func TestOrder_FetchesPlacedOrder(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/orders/31/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 31, "status": "PAID",
			"subtotal": "1198.00", "shipping_fee": "250.00", "total": "1448.00",
			"payment_method": "mpesa", "created_at": "2026-08-29T10:15:00Z",
			"items": [{"product": 42, "name": "Galaxy Buds", "unit_price": "599.00", "quantity": 2, "line_total": "1198.00"}],
			"receipt_number": "RCP-2026-000031"
		}`))
	})
	svc := newCheckoutService(t, r)

	o, err := svc.Order(context.Background(), 31)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusPaid, o.Status)
	require.Len(t, o.Items, 1)
	require.Equal(t, int64(2), o.Items[0].Quantity)
	require.True(t, o.Items[0].LineTotal.Equal(decimal.RequireFromString("1198")))
	require.Equal(t, "RCP-2026-000031", o.ReceiptNumber)
}

func TestWaitForReceipt_PollsUntilReady(t *testing.T) {
	var polls atomic.Int64
	r := chi.NewRouter()
	r.Get("/api/orders/31/receipt/", func(w http.ResponseWriter, _ *http.Request) {
		if polls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"ready": false}`))
			return
		}
		_, _ = w.Write([]byte(`{"ready": true, "download_url": "/api/orders/31/receipt/download/"}`))
	})
	svc := newCheckoutService(t, r)

	st, err := svc.WaitForReceipt(context.Background(), 31, 5*time.Millisecond)
	require.NoError(t, err)
	require.True(t, st.Ready)
	require.Equal(t, "/api/orders/31/receipt/download/", st.DownloadURL)
	require.EqualValues(t, 3, polls.Load())
}

func TestWaitForReceipt_StopsOnDeadline(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/orders/31/receipt/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ready": false}`))
	})
	svc := newCheckoutService(t, r)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	st, err := svc.WaitForReceipt(ctx, 31, 5*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, st.Ready)
}

func TestEmailReceipt(t *testing.T) {
	var called bool
	r := chi.NewRouter()
	r.Post("/api/orders/31/email-receipt/", func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte(`{"ok": true}`))
	})
	svc := newCheckoutService(t, r)

	require.NoError(t, svc.EmailReceipt(context.Background(), 31))
	require.True(t, called)
}

func TestReceiptDownloadURL(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	t.Cleanup(srv.Close)
	rc, err := rest.NewClient(srv.URL, nil, srv.Client())
	require.NoError(t, err)
	svc := NewService(rc)

	require.Equal(t, fmt.Sprintf("%s/api/orders/31/receipt/download/", srv.URL), svc.ReceiptDownloadURL(31))
}

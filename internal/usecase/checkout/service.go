// Package checkout drives order placement and the post-purchase flows:
// server-side cart validation, checkout submission, order lookup and the
// receipt lifecycle.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	domorder "example.com/dukatech/client/internal/domain/order"
	"example.com/dukatech/client/internal/infra/rest"
)

type Service struct {
	rc       *rest.Client
	validate *validator.Validate
}

func NewService(rc *rest.Client) *Service {
	return &Service{rc: rc, validate: validator.New()}
}

// Input is one checkout submission. Shipping fields are checked locally
// before the network call; the server re-checks them anyway.
type Input struct {
	Shipping      domorder.Shipping      `json:"shipping"`
	Billing       domorder.Billing       `json:"billing"`
	PaymentMethod domorder.PaymentMethod `json:"payment_method" validate:"required"`
}

type validateResponse struct {
	OK     bool            `json:"ok"`
	Totals domorder.Totals `json:"totals"`
}

// Validate asks the server to check the cart and compute totals without
// placing an order; an empty cart comes back as an error message.
func (s *Service) Validate(ctx context.Context) (domorder.Totals, error) {
	var res validateResponse
	if err := s.rc.AuthPost(ctx, "/api/checkout/validate/", nil, &res); err != nil {
		return domorder.Totals{}, err
	}
	return res.Totals, nil
}

// Create places the order from the current cart. The server clears the
// cart on success, so callers should refresh their cart view afterwards.
func (s *Service) Create(ctx context.Context, in Input) (domorder.Placed, error) {
	if !in.PaymentMethod.IsValid() {
		return domorder.Placed{}, domorder.ErrInvalidPayment
	}
	if err := s.validate.Struct(in); err != nil {
		return domorder.Placed{}, err
	}
	var placed domorder.Placed
	if err := s.rc.AuthPost(ctx, "/api/checkout/", in, &placed); err != nil {
		return domorder.Placed{}, err
	}
	return placed, nil
}

// Order fetches a placed order by id.
func (s *Service) Order(ctx context.Context, id int64) (domorder.Order, error) {
	var o domorder.Order
	if err := s.rc.AuthGet(ctx, fmt.Sprintf("/api/orders/%d/", id), &o); err != nil {
		return domorder.Order{}, err
	}
	return o, nil
}

// ReceiptStatus reports whether the order's receipt PDF is ready.
func (s *Service) ReceiptStatus(ctx context.Context, id int64) (domorder.ReceiptStatus, error) {
	var st domorder.ReceiptStatus
	if err := s.rc.AuthGet(ctx, fmt.Sprintf("/api/orders/%d/receipt/", id), &st); err != nil {
		return domorder.ReceiptStatus{}, err
	}
	return st, nil
}

// WaitForReceipt polls ReceiptStatus every interval until the receipt is
// ready or ctx expires. Receipt generation is best-effort server-side, so
// callers should bound this with a deadline.
func (s *Service) WaitForReceipt(ctx context.Context, id int64, interval time.Duration) (domorder.ReceiptStatus, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		st, err := s.ReceiptStatus(ctx, id)
		if err != nil {
			return domorder.ReceiptStatus{}, err
		}
		if st.Ready {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-ticker.C:
		}
	}
}

// EmailReceipt asks the server to (re)send the receipt email.
func (s *Service) EmailReceipt(ctx context.Context, id int64) error {
	return s.rc.AuthPost(ctx, fmt.Sprintf("/api/orders/%d/email-receipt/", id), nil, nil)
}

// ReceiptDownloadURL is the absolute download location for the receipt
// PDF; the transfer itself happens outside this client.
func (s *Service) ReceiptDownloadURL(id int64) string {
	return fmt.Sprintf("%s/api/orders/%d/receipt/download/", s.rc.BaseURL(), id)
}

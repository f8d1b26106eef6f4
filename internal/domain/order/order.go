package order

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "cod"
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCard  PaymentMethod = "card"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCOD, PaymentMpesa, PaymentCard:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusFulfilled Status = "FULFILLED"
)

// Shipping is the delivery address block of a checkout submission.
type Shipping struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address1 string `json:"address1" validate:"required"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

// Billing is optional card/tax detail; the API accepts it empty.
type Billing struct {
	NameOnCard string `json:"name_on_card,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
}

// Item is one frozen order line; prices are captured at purchase time.
type Item struct {
	ProductID int64           `json:"product"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Order is the placed-order record as /api/orders/<id>/ serves it.
type Order struct {
	ID            int64           `json:"id"`
	Status        Status          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CreatedAt     string          `json:"created_at"`
	Items         []Item          `json:"items"`

	ReceiptNumber      string `json:"receipt_number,omitempty"`
	ReceiptPDFURL      string `json:"receipt_pdf_url,omitempty"`
	ReceiptGeneratedAt string `json:"receipt_generated_at,omitempty"`
	ReceiptSentAt      string `json:"receipt_sent_at,omitempty"`
}

// Totals is the server-computed summary returned by checkout validation.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Placed is the abbreviated response of a successful checkout.
type Placed struct {
	ID     int64           `json:"id"`
	Status Status          `json:"status"`
	Total  decimal.Decimal `json:"total"`
}

// ReceiptStatus reports whether the receipt PDF is ready to download.
type ReceiptStatus struct {
	Ready       bool   `json:"ready"`
	DownloadURL string `json:"download_url,omitempty"`
}

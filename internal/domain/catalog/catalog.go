package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Item is one catalog record as the storefront API serves it. The catalog
// resources share a common core of fields; resource-specific extras (panel
// type, financing terms, badges) ride along in the optional fields and are
// zero when the resource does not carry them.
type Item struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand,omitempty"`
	Slug  string `json:"slug,omitempty"`

	// Flat-priced resources (products, offers).
	Price    decimal.Decimal  `json:"price,omitempty"`
	OldPrice *decimal.Decimal `json:"old_price,omitempty"`
	Discount string           `json:"discount,omitempty"`

	// Range-priced resources (tablets, televisions, audio, mkopa, ...).
	PriceMinKsh  int64  `json:"price_min_ksh,omitempty"`
	PriceMaxKsh  int64  `json:"price_max_ksh,omitempty"`
	PriceDisplay string `json:"price_display,omitempty"`

	Category  string `json:"category,omitempty"`
	Badge     string `json:"badge,omitempty"`
	Label     string `json:"label,omitempty"`
	SpecsText string `json:"specs_text,omitempty"`
	Desc      string `json:"desc,omitempty"`
	Image     string `json:"image,omitempty"`

	// ProductID links the record to the base product used by the cart.
	// Nil means the record is display-only and cannot be purchased.
	ProductID *int64 `json:"product_id,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
}

// Purchasable reports whether the item can be added to a cart.
func (it Item) Purchasable() bool {
	return it.ProductID != nil && *it.ProductID > 0
}

// Page is the result of a list call. List endpoints answer either a bare
// JSON array or the paginated envelope {count,next,previous,results}; both
// decode into a Page, so the ambiguity never leaks past this package.
type Page struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []Item `json:"results"`
}

func (p *Page) UnmarshalJSON(data []byte) error {
	if firstByte(data) == '[' {
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*p = Page{Count: len(items), Results: items}
		return nil
	}

	type envelope struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []Item  `json:"results"`
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*p = Page{Count: env.Count, Results: env.Results}
	if env.Next != nil {
		p.Next = *env.Next
	}
	if env.Previous != nil {
		p.Previous = *env.Previous
	}
	if p.Results == nil {
		p.Results = []Item{}
	}
	return nil
}

func firstByte(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}

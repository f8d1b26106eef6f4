package cart

import "github.com/shopspring/decimal"

// Product is the slice of a catalog product the cart API echoes back inside
// each line: enough to render a row without a second fetch.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Brand string          `json:"brand,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// Line is a single product entry in the cart. Quantity is always >= 1 in a
// well-formed cart; a quantity that would reach zero removes the line.
type Line struct {
	ID       int64   `json:"id,omitempty"`
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

// Cart is the full cart state. The authoritative copy lives server-side;
// the client holds a snapshot.
type Cart struct {
	ID    int64  `json:"id,omitempty"`
	Items []Line `json:"items"`
}

// Clone returns a deep copy so optimistic edits never alias a snapshot a
// caller may still be reading.
func (c Cart) Clone() Cart {
	out := Cart{ID: c.ID, Items: make([]Line, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

// TotalQuantity is the sum of all line quantities, the number broadcast to
// cart-count listeners.
func (c Cart) TotalQuantity() int64 {
	var n int64
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of price*quantity over all lines.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Items {
		sum = sum.Add(l.Product.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return sum
}

// Find returns the index of the line for productID, or -1.
func (c Cart) Find(productID int64) int {
	for i, l := range c.Items {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// ApplyDelta applies an optimistic quantity change to a copy of the cart:
// the new quantity is max(0, old+delta), and a line that reaches zero is
// removed rather than kept as a zero-quantity row. A missing line is a
// no-op. The receiver is never mutated.
func (c Cart) ApplyDelta(productID, delta int64) Cart {
	idx := c.Find(productID)
	if idx == -1 {
		return c.Clone()
	}
	out := c.Clone()
	next := out.Items[idx].Quantity + delta
	if next <= 0 {
		out.Items = append(out.Items[:idx], out.Items[idx+1:]...)
		return out
	}
	out.Items[idx].Quantity = next
	return out
}

// RemoveLine drops the line for productID outright, whatever its quantity.
// A missing line is a no-op. The receiver is never mutated.
func (c Cart) RemoveLine(productID int64) Cart {
	idx := c.Find(productID)
	if idx == -1 {
		return c.Clone()
	}
	out := c.Clone()
	out.Items = append(out.Items[:idx], out.Items[idx+1:]...)
	return out
}

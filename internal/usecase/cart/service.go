// Package cart wraps the cart endpoints and keeps the local snapshot the
// UI renders from, applying optimistic edits ahead of the network and
// falling back to the server's copy when a call fails.
package cart

import (
	"context"

	domcart "example.com/dukatech/client/internal/domain/cart"
	"example.com/dukatech/client/internal/infra/rest"
)

// Client talks to the cart endpoints. Every operation requires a signed-in
// session and returns the entire updated cart, never a delta.
type Client struct {
	rc *rest.Client
}

func NewClient(rc *rest.Client) *Client {
	return &Client{rc: rc}
}

type addPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type removePayload struct {
	ProductID int64 `json:"product_id"`
}

// Get fetches the current cart.
func (c *Client) Get(ctx context.Context) (domcart.Cart, error) {
	var out domcart.Cart
	if err := c.rc.AuthGet(ctx, "/api/cart/", &out); err != nil {
		return domcart.Cart{}, err
	}
	return out, nil
}

// Add increments (or creates) the line for productID by quantity. A
// negative quantity decrements; the server removes any line that reaches
// zero, so decrement is just Add with -1.
func (c *Client) Add(ctx context.Context, productID, quantity int64) (domcart.Cart, error) {
	var out domcart.Cart
	payload := addPayload{ProductID: productID, Quantity: quantity}
	if err := c.rc.AuthPost(ctx, "/api/cart/add/", payload, &out); err != nil {
		return domcart.Cart{}, err
	}
	return out, nil
}

// Remove deletes the line for productID entirely, whatever its quantity.
func (c *Client) Remove(ctx context.Context, productID int64) (domcart.Cart, error) {
	var out domcart.Cart
	if err := c.rc.AuthPost(ctx, "/api/cart/remove/", removePayload{ProductID: productID}, &out); err != nil {
		return domcart.Cart{}, err
	}
	return out, nil
}

// Package event carries the two cross-component notifications the
// storefront needs: "the session changed" and "the cart count changed".
// It is an explicit injected value, not an ambient global, so every
// subscriber can be found by following the wiring.
package event

import "sync"

type Bus struct {
	mu     sync.Mutex
	nextID int
	auth   map[int]func()
	cart   map[int]func(count int64)
}

func NewBus() *Bus {
	return &Bus{
		auth: make(map[int]func()),
		cart: make(map[int]func(int64)),
	}
}

// SubscribeAuth registers a handler for auth-changed notifications and
// returns its unsubscribe func.
func (b *Bus) SubscribeAuth(fn func()) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.auth[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.auth, id)
	}
}

// SubscribeCart registers a handler for cart-count notifications and
// returns its unsubscribe func.
func (b *Bus) SubscribeCart(fn func(count int64)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.cart[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.cart, id)
	}
}

// PublishAuthChanged notifies subscribers that tokens were written or
// cleared. Handlers run synchronously on the caller's goroutine.
func (b *Bus) PublishAuthChanged() {
	for _, fn := range b.authHandlers() {
		fn()
	}
}

// PublishCartUpdated broadcasts the new total item count.
func (b *Bus) PublishCartUpdated(count int64) {
	for _, fn := range b.cartHandlers() {
		fn(count)
	}
}

func (b *Bus) authHandlers() []func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]func(), 0, len(b.auth))
	for _, fn := range b.auth {
		out = append(out, fn)
	}
	return out
}

func (b *Bus) cartHandlers() []func(int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]func(int64), 0, len(b.cart))
	for _, fn := range b.cart {
		out = append(out, fn)
	}
	return out
}

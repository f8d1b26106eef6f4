package cart

import (
	"context"
	"sync"

	domcart "example.com/dukatech/client/internal/domain/cart"
	"example.com/dukatech/client/internal/event"
)

// API is what the view model needs from the cart client.
type API interface {
	Get(ctx context.Context) (domcart.Cart, error)
	Add(ctx context.Context, productID, quantity int64) (domcart.Cart, error)
	Remove(ctx context.Context, productID int64) (domcart.Cart, error)
}

// ViewModel owns the cart snapshot the UI renders from. Quantity changes
// and removals land on the snapshot synchronously before the network call
// goes out; when the call fails the authoritative cart is re-fetched so no
// optimistic state is left stranded. Every change broadcasts the total
// item count on the bus.
type ViewModel struct {
	api API
	bus *event.Bus

	mu     sync.Mutex
	snap   domcart.Cart
	busy   map[int64]bool
	gen    uint64
	loaded bool
}

func NewViewModel(api API, bus *event.Bus) *ViewModel {
	return &ViewModel{api: api, bus: bus, busy: make(map[int64]bool)}
}

// Snapshot returns a copy of the current cart state.
func (vm *ViewModel) Snapshot() domcart.Cart {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.snap.Clone()
}

// Loaded reports whether a server cart has been fetched at least once.
func (vm *ViewModel) Loaded() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loaded
}

// Busy reports whether a mutation for productID is still in flight.
func (vm *ViewModel) Busy(productID int64) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.busy[productID]
}

// Refresh fetches the authoritative cart. Each call supersedes any earlier
// one still in flight: a slower, stale response is discarded instead of
// overwriting fresher state.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	vm.mu.Lock()
	vm.gen++
	gen := vm.gen
	vm.mu.Unlock()

	fetched, err := vm.api.Get(ctx)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	if gen != vm.gen {
		vm.mu.Unlock()
		return nil
	}
	vm.snap = fetched
	vm.loaded = true
	count := fetched.TotalQuantity()
	vm.mu.Unlock()

	vm.bus.PublishCartUpdated(count)
	return nil
}

// Add puts quantity of productID in the cart (a product-page "add to
// cart", not a row edit) and applies the server's returned cart.
func (vm *ViewModel) Add(ctx context.Context, productID, quantity int64) error {
	if err := vm.reserve(productID); err != nil {
		return err
	}
	defer vm.release(productID)

	updated, err := vm.api.Add(ctx, productID, quantity)
	if err != nil {
		return err
	}
	vm.apply(updated)
	return nil
}

// Increment raises the line's quantity by one, optimistically.
func (vm *ViewModel) Increment(ctx context.Context, productID int64) error {
	return vm.mutate(ctx, productID, func(c domcart.Cart) domcart.Cart {
		return c.ApplyDelta(productID, +1)
	}, func(ctx context.Context) error {
		_, err := vm.api.Add(ctx, productID, +1)
		return err
	})
}

// Decrement lowers the line's quantity by one, optimistically; at one, the
// line disappears.
func (vm *ViewModel) Decrement(ctx context.Context, productID int64) error {
	return vm.mutate(ctx, productID, func(c domcart.Cart) domcart.Cart {
		return c.ApplyDelta(productID, -1)
	}, func(ctx context.Context) error {
		_, err := vm.api.Add(ctx, productID, -1)
		return err
	})
}

// Remove deletes the line outright, optimistically.
func (vm *ViewModel) Remove(ctx context.Context, productID int64) error {
	return vm.mutate(ctx, productID, func(c domcart.Cart) domcart.Cart {
		return c.RemoveLine(productID)
	}, func(ctx context.Context) error {
		_, err := vm.api.Remove(ctx, productID)
		return err
	})
}

// mutate is the optimistic-update-then-reconcile cycle shared by the row
// operations: flag the line busy, edit the snapshot locally, broadcast,
// then issue the call. On failure the server cart is re-fetched so the
// snapshot never stays on an edit the server refused.
func (vm *ViewModel) mutate(ctx context.Context, productID int64, local func(domcart.Cart) domcart.Cart, remote func(context.Context) error) error {
	if err := vm.reserve(productID); err != nil {
		return err
	}
	defer vm.release(productID)

	vm.mu.Lock()
	vm.snap = local(vm.snap)
	count := vm.snap.TotalQuantity()
	vm.mu.Unlock()
	vm.bus.PublishCartUpdated(count)

	if err := remote(ctx); err != nil {
		// Reconcile; the refresh error, if any, is secondary to the
		// mutation failure being reported.
		_ = vm.Refresh(ctx)
		return err
	}
	return nil
}

func (vm *ViewModel) reserve(productID int64) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.busy[productID] {
		return domcart.ErrLineBusy
	}
	vm.busy[productID] = true
	return nil
}

func (vm *ViewModel) release(productID int64) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	delete(vm.busy, productID)
}

func (vm *ViewModel) apply(c domcart.Cart) {
	vm.mu.Lock()
	vm.gen++
	vm.snap = c
	vm.loaded = true
	count := c.TotalQuantity()
	vm.mu.Unlock()
	vm.bus.PublishCartUpdated(count)
}

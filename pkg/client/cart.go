package client

import (
	"context"
	"errors"
)

// ErrToggleInFlight means a toggle was requested for a product whose previous
// toggle has not settled yet. At most one confirmation per product may be
// outstanding; later requests are rejected without touching local state, so a
// settled rollback always restores the true pre-toggle value.
var ErrToggleInFlight = errors.New("a cart toggle for this product is already in flight")

// ErrUnknownProduct means the product id is not on the current page.
var ErrUnknownProduct = errors.New("product not in the current list")

// ToggleCart optimistically flips the added_cart flag of one product: the
// local flag changes synchronously before any network traffic, then a
// background call confirms the change. On a negative acknowledgement or a
// transport failure the flag is flipped back and the error is delivered on
// the returned channel; interaction is never blocked on the confirmation.
//
// The channel receives exactly one value (nil on success) and is then closed.
func (l *ProductList) ToggleCart(id string) (<-chan error, error) {
	l.mu.Lock()
	if _, busy := l.inflight[id]; busy {
		l.mu.Unlock()
		return nil, ErrToggleInFlight
	}
	if !l.flip(id) {
		l.mu.Unlock()
		return nil, ErrUnknownProduct
	}
	l.inflight[id] = struct{}{}
	generation := l.generation
	l.mu.Unlock()

	settled := make(chan error, 1)

	go func() {
		defer close(settled)

		ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()

		err := l.api.ToggleCart(ctx, id)

		l.mu.Lock()
		delete(l.inflight, id)
		if err != nil && l.generation == generation {
			// Roll back the optimistic flip. If a fetch replaced the page in
			// the meantime, the items already carry the server's values and a
			// flip would invert fresh truth instead of restoring anything.
			l.flip(id)
		}
		l.mu.Unlock()

		if err != nil {
			l.logf("products: cart toggle for %s failed, rolled back: %v", id, err)
		}
		settled <- err
	}()

	return settled, nil
}

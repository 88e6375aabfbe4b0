package client

import (
	"context"
	"errors"
	"testing"
)

func loadedList(t *testing.T, api *fakeAPI, items []Product) *ProductList {
	t.Helper()
	api.mu.Lock()
	api.listResults = append(api.listResults, listResult{page: page(items, 1, 1, int64(len(items)))})
	api.mu.Unlock()

	list := NewProductList(api, 10)
	list.logf = func(string, ...interface{}) {}
	if err := list.Fetch(context.Background(), 1); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	return list
}

func TestToggleFlipsLocallyBeforeConfirmation(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{toggleGate: gate}
	list := loadedList(t, api, []Product{{ID: "abc", AddedCart: false}})

	settled, err := list.ToggleCart("abc")
	if err != nil {
		t.Fatalf("ToggleCart: %v", err)
	}

	// The remote call has not settled yet; the flag must already be flipped.
	p, ok := list.Product("abc")
	if !ok || !p.AddedCart {
		t.Fatalf("flag not flipped synchronously: %+v", p)
	}

	close(gate)
	if err := <-settled; err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	p, _ = list.Product("abc")
	if !p.AddedCart {
		t.Fatal("flag reverted after a successful confirmation")
	}
}

func TestToggleRollsBackOnNegativeAck(t *testing.T) {
	api := &fakeAPI{toggleErr: &APIError{Message: "cart update rejected"}}
	list := loadedList(t, api, []Product{{ID: "abc", AddedCart: false}})

	settled, err := list.ToggleCart("abc")
	if err != nil {
		t.Fatalf("ToggleCart: %v", err)
	}

	if err := <-settled; err == nil {
		t.Fatal("expected the confirmation to fail")
	}

	p, _ := list.Product("abc")
	if p.AddedCart {
		t.Fatal("flag not rolled back after failed confirmation")
	}
}

func TestToggleRollsBackOnTransportError(t *testing.T) {
	api := &fakeAPI{toggleErr: errors.New("network down")}
	list := loadedList(t, api, []Product{{ID: "x", AddedCart: true}})

	settled, err := list.ToggleCart("x")
	if err != nil {
		t.Fatalf("ToggleCart: %v", err)
	}

	// Flipped immediately...
	if p, _ := list.Product("x"); p.AddedCart {
		t.Fatal("flag not flipped synchronously")
	}

	// ...and restored once the failure is observed.
	if err := <-settled; err == nil {
		t.Fatal("expected the confirmation to fail")
	}
	if p, _ := list.Product("x"); !p.AddedCart {
		t.Fatal("flag not restored to its pre-toggle value")
	}
}

func TestFailedToggleDoesNotRollBackRefetchedState(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{toggleGate: gate, toggleErr: errors.New("network down")}
	list := loadedList(t, api, []Product{{ID: "abc", AddedCart: false}})

	settled, err := list.ToggleCart("abc")
	if err != nil {
		t.Fatalf("ToggleCart: %v", err)
	}

	// A refetch lands while the confirmation is still in flight; the server
	// still reports the pre-toggle value.
	api.mu.Lock()
	api.listResults = append(api.listResults, listResult{
		page: page([]Product{{ID: "abc", AddedCart: false}}, 1, 1, 1),
	})
	api.mu.Unlock()
	if err := list.Fetch(context.Background(), 1); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	close(gate)
	if err := <-settled; err == nil {
		t.Fatal("expected the confirmation to fail")
	}

	// The fetched value is authoritative; the rollback must not invert it.
	p, _ := list.Product("abc")
	if p.AddedCart {
		t.Fatal("rollback inverted the refetched server value")
	}
}

func TestSecondToggleWhileInFlightIsRejected(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{toggleGate: gate}
	list := loadedList(t, api, []Product{{ID: "abc", AddedCart: false}})

	settled, err := list.ToggleCart("abc")
	if err != nil {
		t.Fatalf("first ToggleCart: %v", err)
	}

	if _, err := list.ToggleCart("abc"); !errors.Is(err, ErrToggleInFlight) {
		t.Fatalf("expected ErrToggleInFlight, got %v", err)
	}

	// The rejected toggle must not have touched local state.
	if p, _ := list.Product("abc"); !p.AddedCart {
		t.Fatal("rejected toggle altered local state")
	}

	close(gate)
	<-settled

	if _, _, toggles, _ := api.counts(); toggles != 1 {
		t.Fatalf("expected exactly one confirmation call, got %d", toggles)
	}

	// After settlement a new toggle is allowed again.
	if _, err := list.ToggleCart("abc"); err != nil {
		t.Fatalf("toggle after settlement: %v", err)
	}
}

func TestToggleUnknownProduct(t *testing.T) {
	api := &fakeAPI{}
	list := loadedList(t, api, []Product{{ID: "abc"}})

	if _, err := list.ToggleCart("missing"); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
	if _, _, toggles, _ := api.counts(); toggles != 0 {
		t.Fatalf("unknown product must not reach the network: %d calls", toggles)
	}
}

package client

import (
	"context"
	"log"
	"sync"
)

// ProductList holds one page of products plus the pagination block, the way a
// home view would. Fetch failures never clobber previously loaded state, so a
// view can keep showing stale content while a refetch fails or is in flight.
type ProductList struct {
	api     ProductsAPI
	perPage int
	logf    func(format string, args ...interface{})

	mu          sync.Mutex
	items       []Product
	currentPage int
	totalPages  int
	totalItems  int64
	loaded      bool
	refreshing  bool
	generation  uint64              // bumped whenever a fetch replaces the items
	inflight    map[string]struct{} // product ids with an unsettled toggle
}

func NewProductList(api ProductsAPI, perPage int) *ProductList {
	if perPage < 1 {
		perPage = 10
	}
	return &ProductList{
		api:      api,
		perPage:  perPage,
		logf:     log.Printf,
		inflight: make(map[string]struct{}),
	}
}

// Fetch loads the given page, replacing items and pagination verbatim from
// the response. On any failure the previous state is left untouched and the
// error is both logged and returned.
func (l *ProductList) Fetch(ctx context.Context, page int) error {
	l.mu.Lock()
	l.refreshing = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.refreshing = false
		l.mu.Unlock()
	}()

	result, err := l.api.List(ctx, page, l.perPage)
	if err != nil {
		l.logf("products: fetch page %d failed: %v", page, err)
		return err
	}

	l.mu.Lock()
	l.items = result.Items
	l.currentPage = result.Pagination.CurrentPage
	l.totalPages = result.Pagination.TotalPages
	l.totalItems = result.Pagination.TotalItems
	l.loaded = true
	l.generation++
	l.mu.Unlock()

	return nil
}

// ChangePage navigates to another page. Requests outside [1, totalPages] are
// a local no-op: no network call, no state change.
func (l *ProductList) ChangePage(ctx context.Context, page int) error {
	l.mu.Lock()
	total := l.totalPages
	l.mu.Unlock()

	if page < 1 || page > total {
		return nil
	}
	return l.Fetch(ctx, page)
}

// Items returns a copy of the current page.
func (l *ProductList) Items() []Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Product, len(l.items))
	copy(out, l.items)
	return out
}

// Page reports the pagination block as last received.
func (l *ProductList) Page() (current, totalPages int, totalItems int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentPage, l.totalPages, l.totalItems
}

// Loaded reports whether an initial fetch has ever succeeded. Until then a
// view shows a blank loading state; afterwards Refreshing distinguishes a
// refetch over stale content.
func (l *ProductList) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Refreshing reports whether a fetch is currently in flight.
func (l *ProductList) Refreshing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshing
}

// Product returns the current copy of one item by id.
func (l *ProductList) Product(id string) (Product, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.items {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (l *ProductList) flip(id string) bool {
	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].AddedCart = !l.items[i].AddedCart
			return true
		}
	}
	return false
}

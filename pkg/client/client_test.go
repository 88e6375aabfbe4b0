package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeSession always returns a fixed token.
type fakeSession struct {
	err error
}

func (s *fakeSession) Current(ctx context.Context) (*Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &Session{
		AccessToken: "test-token",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        User{ID: "user-1", Email: "u@example.com"},
	}, nil
}

// fakeAPI is a recording ProductsAPI with scriptable results.
type fakeAPI struct {
	mu sync.Mutex

	listResults []listResult
	listCalls   int

	createErr   error
	createCalls int
	lastCreate  ProductFields

	editErr   error
	editCalls int
	lastEdit  ProductFields
	lastID    string

	getProduct *Product
	getErr     error

	toggleErr   error
	toggleCalls int
	toggleGate  chan struct{} // when set, ToggleCart blocks until closed
}

type listResult struct {
	page *ProductPage
	err  error
}

func (f *fakeAPI) List(ctx context.Context, page, perPage int) (*ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listCalls >= len(f.listResults) {
		return nil, errors.New("unexpected List call")
	}
	r := f.listResults[f.listCalls]
	f.listCalls++
	return r.page, r.err
}

func (f *fakeAPI) Create(ctx context.Context, fields ProductFields) (*Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastCreate = fields
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &Product{ID: "created-1", Name: fields.Name}, nil
}

func (f *fakeAPI) Edit(ctx context.Context, productID string, fields ProductFields) (*Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editCalls++
	f.lastID = productID
	f.lastEdit = fields
	if f.editErr != nil {
		return nil, f.editErr
	}
	return &Product{ID: productID, Name: fields.Name}, nil
}

func (f *fakeAPI) Get(ctx context.Context, productID string) (*Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getProduct, nil
}

func (f *fakeAPI) ToggleCart(ctx context.Context, productID string) error {
	f.mu.Lock()
	gate := f.toggleGate
	f.toggleCalls++
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toggleErr
}

func (f *fakeAPI) counts() (create, edit, toggle, list int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.editCalls, f.toggleCalls, f.listCalls
}

func TestNegativeAckYieldsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"name is required","data":null}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.postJSON(context.Background(), "/api/v1/products/create", "tok", map[string]string{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "name is required" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := New(srv.URL, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.postJSON(context.Background(), "/api/v1/products/list", "tok", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an APIError: %v", err)
	}
}

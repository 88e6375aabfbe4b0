package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func authServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/auth/signin":
			var creds map[string]string
			json.NewDecoder(r.Body).Decode(&creds)
			if creds["password"] != "secret123" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"status":false,"message":"invalid email or password","data":null}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true, "message": "Signed in",
				"data": map[string]interface{}{
					"access_token": "tok-123",
					"expires_at":   time.Now().Add(time.Hour).Format(time.RFC3339),
					"user":         map[string]string{"id": "u-1", "email": creds["email"]},
				},
			})
		case "/api/v1/auth/signout":
			w.Write([]byte(`{"status":true,"message":"Signed out","data":null}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestSignInHoldsSession(t *testing.T) {
	srv := authServer(t)
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	auth := NewAuthClient(c)

	if _, err := auth.Current(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession before sign-in, got %v", err)
	}

	session, err := auth.SignIn(context.Background(), "u@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.AccessToken != "tok-123" {
		t.Fatalf("unexpected token %q", session.AccessToken)
	}

	held, err := auth.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if held.AccessToken != "tok-123" || held.User.Email != "u@example.com" {
		t.Fatalf("unexpected held session: %+v", held)
	}
}

func TestSignInRejectionIsAPIError(t *testing.T) {
	srv := authServer(t)
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	auth := NewAuthClient(c)

	_, err := auth.SignIn(context.Background(), "u@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}

	if _, err := auth.Current(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatal("failed sign-in must not leave a session behind")
	}
}

func TestExpiredSessionCountsAsAbsent(t *testing.T) {
	auth := NewAuthClient(&Client{})
	auth.session = &Session{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}

	if _, err := auth.Current(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for an expired session, got %v", err)
	}
}

func TestSignOutDropsSession(t *testing.T) {
	srv := authServer(t)
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	auth := NewAuthClient(c)

	if _, err := auth.SignIn(context.Background(), "u@example.com", "secret123"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := auth.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := auth.Current(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatal("session survived sign-out")
	}
}

package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoSession means an operation that requires authentication was attempted
// without a valid session. It is fatal to the operation, never retried.
var ErrNoSession = errors.New("not authenticated")

// User is the read-only account copy attached to a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the bearer credential and its expiry. The SDK keeps a
// read-only copy; refresh is the server's concern.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// SessionProvider is the capability handed to every component that needs a
// bearer credential. Components receive it explicitly; there is no package
// level singleton.
type SessionProvider interface {
	// Current returns the active session, or ErrNoSession.
	Current(ctx context.Context) (*Session, error)
}

// AuthClient talks to the session endpoints and holds the resulting session.
// It implements SessionProvider for the other clients.
type AuthClient struct {
	c *Client

	mu      sync.Mutex
	session *Session
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// SignUp registers a new account and activates its session.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return a.authenticate(ctx, "/api/v1/auth/signup", email, password)
}

// SignIn authenticates and activates the session.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return a.authenticate(ctx, "/api/v1/auth/signin", email, password)
}

func (a *AuthClient) authenticate(ctx context.Context, path, email, password string) (*Session, error) {
	env, err := a.c.postJSON(ctx, path, "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := env.decodeData(&session); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()

	return &session, nil
}

// SignOut revokes the session server-side and drops the local copy. The local
// copy is dropped even when the remote call fails.
func (a *AuthClient) SignOut(ctx context.Context) error {
	a.mu.Lock()
	session := a.session
	a.session = nil
	a.mu.Unlock()

	if session == nil {
		return nil
	}

	_, err := a.c.postJSON(ctx, "/api/v1/auth/signout", session.AccessToken, nil)
	return err
}

// Current implements SessionProvider. An expired session counts as absent.
func (a *AuthClient) Current(ctx context.Context) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		return nil, ErrNoSession
	}
	if !a.session.ExpiresAt.IsZero() && time.Now().After(a.session.ExpiresAt) {
		a.session = nil
		return nil, ErrNoSession
	}
	return a.session, nil
}

// Refresh re-validates the held token against the server and replaces the
// local copy with the authoritative one.
func (a *AuthClient) Refresh(ctx context.Context) (*Session, error) {
	current, err := a.Current(ctx)
	if err != nil {
		return nil, err
	}

	env, err := a.c.getJSON(ctx, "/api/v1/auth/session", current.AccessToken)
	if err != nil {
		a.mu.Lock()
		a.session = nil
		a.mu.Unlock()
		return nil, err
	}

	var session Session
	if err := env.decodeData(&session); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()

	return &session, nil
}

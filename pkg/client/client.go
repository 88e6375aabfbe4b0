// Package client is the Go SDK for the shoplist API. It wraps the three
// collaborator surfaces (session, storage, data endpoint) and carries the
// stateful pieces a frontend needs: the paginated product list with its
// optimistic cart toggle, and the create/edit submission pipeline.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every network call issued by the SDK. A hung remote
// call fails instead of delaying a rollback indefinitely.
const DefaultTimeout = 15 * time.Second

// APIError is a negative acknowledgement from the API: the call reached the
// server and came back {status:false, message}. Transport failures are
// returned as ordinary errors instead.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is the shared HTTP plumbing for the collaborator clients.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New builds a Client for the given base URL. The injected http.Client may be
// nil, in which case one with DefaultTimeout is used.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: u, http: httpClient}, nil
}

// envelope mirrors the API response wrapper.
type envelope struct {
	Status     bool            `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}

// Pagination is returned verbatim by the listing endpoint; the SDK never
// recomputes these values.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

func (c *Client) resolve(path string) string {
	rel := &url.URL{Path: path}
	return c.baseURL.ResolveReference(rel).String()
}

// postJSON issues an RPC-style POST and decodes the envelope. A decodable
// {status:false} body yields *APIError regardless of HTTP status; anything
// else is a transport failure.
func (c *Client) postJSON(ctx context.Context, path, token string, body interface{}) (*envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req)
}

// getJSON issues a GET and decodes the envelope.
func (c *Client) getJSON(ctx context.Context, path, token string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}

	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", res.StatusCode)
		}
		return nil, &APIError{Message: msg}
	}

	return &env, nil
}

var errNoData = errors.New("response carried no data")

func (e *envelope) decodeData(out interface{}) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return errNoData
	}
	return json.Unmarshal(e.Data, out)
}

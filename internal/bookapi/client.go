// Package bookapi is a thin client for the REST book resource.
//
// Every operation is a single request/response pair. There is no retry and no
// backoff: transport errors and non-2xx responses surface as ErrRequestFailed.
package bookapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/booktable/internal/entities"
)

const (
	// DefaultBaseURL is the public fake REST API the book table was built against.
	DefaultBaseURL = "https://fakerestapi.azurewebsites.net/api/v1/Books"

	defaultTimeout = 30 * time.Second
)

// Client talks to the /Books resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a client for the resource at baseURL (DefaultBaseURL if empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resource URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := c.do(ctx, "list books", http.MethodGet, c.baseURL, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Get fetches a single book.
func (c *Client) Get(ctx context.Context, id int) (*entities.Book, error) {
	var book entities.Book
	if err := c.do(ctx, "get book", http.MethodGet, c.bookURL(id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Create stores a new book. Any id on the payload is dropped; the server assigns one.
func (c *Client) Create(ctx context.Context, book entities.Book) (*entities.Book, error) {
	book.ID = 0

	var created entities.Book
	if err := c.do(ctx, "create book", http.MethodPost, c.baseURL, book, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the book with the given id. The payload must carry the same id.
func (c *Client) Update(ctx context.Context, id int, book entities.Book) (*entities.Book, error) {
	if book.ID != id {
		return nil, fmt.Errorf("update book %d: %w", id, ErrIDMismatch)
	}

	var updated entities.Book
	if err := c.do(ctx, "update book", http.MethodPut, c.bookURL(id), book, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the book with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete book", http.MethodDelete, c.bookURL(id), nil, nil)
}

// Ping checks that the book store answers. It sends a HEAD request to the
// resource, so no collection is transferred. Only transport failures and 5xx
// responses count as down; servers that reject HEAD with a 4xx are reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return &RequestError{Op: "ping", Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: "ping", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &RequestError{
			Op:         "ping",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return nil
}

func (c *Client) bookURL(id int) string {
	return c.baseURL + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, op, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

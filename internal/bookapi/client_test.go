package bookapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booktable/internal/entities"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api/v1/Books", WithHTTPClient(server.Client()))
}

func TestNewClient(t *testing.T) {
	t.Run("defaults to the public fake API", func(t *testing.T) {
		client := NewClient("")
		assert.Equal(t, DefaultBaseURL, client.BaseURL())
		assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	})

	t.Run("trims trailing slash and applies timeout", func(t *testing.T) {
		client := NewClient("http://localhost:8189/api/v1/Books/", WithTimeout(5*time.Second))
		assert.Equal(t, "http://localhost:8189/api/v1/Books", client.BaseURL())
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})
}

func TestClient_List(t *testing.T) {
	publish := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/Books", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]entities.Book{
			{ID: 1, Title: "Zeta", PageCount: 100, PublishDate: publish},
			{ID: 2, Title: "Alpha", PageCount: 50, PublishDate: publish},
		})
	})

	books, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Zeta", books[0].Title)
	assert.Equal(t, 50, books[1].PageCount)
	assert.True(t, publish.Equal(books[1].PublishDate))
}

func TestClient_Get(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/Books/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(entities.Book{ID: 42, Title: "Answer"})
	})

	book, err := client.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, book.ID)
	assert.Equal(t, "Answer", book.Title)
}

func TestClient_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, hasID := payload["id"]
		assert.False(t, hasID, "create payload must not carry an id")
		assert.Equal(t, "Fresh", payload["title"])

		_ = json.NewEncoder(w).Encode(entities.Book{ID: 201, Title: "Fresh", PageCount: 12})
	})

	created, err := client.Create(context.Background(), entities.Book{ID: 9, Title: "Fresh", PageCount: 12})
	require.NoError(t, err)
	assert.Equal(t, 201, created.ID)
}

func TestClient_Update(t *testing.T) {
	t.Run("sends the record to its path", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/v1/Books/5", r.URL.Path)

			var book entities.Book
			require.NoError(t, json.NewDecoder(r.Body).Decode(&book))
			assert.Equal(t, 5, book.ID)
			_ = json.NewEncoder(w).Encode(book)
		})

		updated, err := client.Update(context.Background(), 5, entities.Book{ID: 5, Title: "Edited"})
		require.NoError(t, err)
		assert.Equal(t, "Edited", updated.Title)
	})

	t.Run("rejects mismatched ids without a request", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := client.Update(context.Background(), 5, entities.Book{ID: 6})
		assert.ErrorIs(t, err, ErrIDMismatch)
		assert.False(t, called)
	})
}

func TestClient_Delete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/Books/3", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.Delete(context.Background(), 3))
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"not found", http.StatusNotFound},
		{"bad request", http.StatusBadRequest},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.statusCode)
			})

			_, err := client.Get(context.Background(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRequestFailed)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.statusCode, reqErr.StatusCode)
			assert.Equal(t, "get book", reqErr.Op)
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := NewClient(server.URL, WithHTTPClient(server.Client()))
		server.Close()

		_, err := client.List(context.Background())
		assert.ErrorIs(t, err, ErrRequestFailed)
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		})

		_, err := client.List(context.Background())
		assert.ErrorIs(t, err, ErrRequestFailed)
	})
}

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
	}{
		{"ok", http.StatusOK, false},
		{"head not allowed", http.StatusMethodNotAllowed, false},
		{"server error", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var method string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				w.WriteHeader(tt.statusCode)
			})

			err := client.Ping(context.Background())
			assert.Equal(t, http.MethodHead, method)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRequestFailed)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := NewClient(server.URL, WithHTTPClient(server.Client()))
		server.Close()

		assert.ErrorIs(t, client.Ping(context.Background()), ErrRequestFailed)
	})
}

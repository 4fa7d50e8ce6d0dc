package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_TitleContains(t *testing.T) {
	book := Book{Title: "Alpha Centauri"}

	tests := []struct {
		term string
		want bool
	}{
		{"al", true},
		{"AL", true},
		{"centauri", true},
		{"", true},
		{"zeta", false},
		{"alpha  centauri", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, book.TitleContains(tt.term))
		})
	}
}

func TestBook_JSON(t *testing.T) {
	t.Run("omits zero id on create payloads", func(t *testing.T) {
		data, err := json.Marshal(Book{Title: "New", PageCount: 3})
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"id"`)
		assert.Contains(t, string(data), `"pageCount":3`)
	})

	t.Run("decodes the remote store payload", func(t *testing.T) {
		payload := `{"id":7,"title":"Book 7","description":"Lorem ipsum","pageCount":700,"publishDate":"2025-10-09T08:15:30.1234567+00:00"}`

		var book Book
		require.NoError(t, json.Unmarshal([]byte(payload), &book))

		assert.Equal(t, 7, book.ID)
		assert.Equal(t, "Book 7", book.Title)
		assert.Equal(t, 700, book.PageCount)
		assert.Equal(t, time.Date(2025, 10, 9, 8, 15, 30, 123456700, time.UTC), book.PublishDate.UTC())
	})
}

package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booktable/internal/entities"
)

func intPtr(v int) *int { return &v }

func validForm() BookForm {
	return BookForm{
		Title:       "Dune",
		Description: "Desert planet politics",
		PageCount:   intPtr(412),
		PublishDate: "1965-08-01",
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a complete form", func(t *testing.T) {
		assert.NoError(t, Validate(validForm()))
	})

	tests := []struct {
		name   string
		mutate func(*BookForm)
		field  string
		want   string
	}{
		{
			name:   "missing title",
			mutate: func(f *BookForm) { f.Title = "" },
			field:  "title",
			want:   "Title is required",
		},
		{
			name:   "short title",
			mutate: func(f *BookForm) { f.Title = "A" },
			field:  "title",
			want:   "Title must be at least 2 characters",
		},
		{
			name:   "short description",
			mutate: func(f *BookForm) { f.Description = "too short" },
			field:  "description",
			want:   "Description must be at least 10 characters",
		},
		{
			name:   "missing page count",
			mutate: func(f *BookForm) { f.PageCount = nil },
			field:  "pageCount",
			want:   "PageCount is required",
		},
		{
			name:   "zero page count",
			mutate: func(f *BookForm) { f.PageCount = intPtr(0) },
			field:  "pageCount",
			want:   "PageCount must be at least 1",
		},
		{
			name:   "missing publish date",
			mutate: func(f *BookForm) { f.PublishDate = "" },
			field:  "publishDate",
			want:   "PublishDate is required",
		},
		{
			name:   "unparseable publish date",
			mutate: func(f *BookForm) { f.PublishDate = "last tuesday" },
			field:  "publishDate",
			want:   "PublishDate must be a valid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := Validate(form)
			require.Error(t, err)

			fields, ok := AsError(err)
			require.True(t, ok)
			assert.Len(t, fields, 1)
			assert.Equal(t, tt.want, fields[tt.field])
		})
	}

	t.Run("reports every failing field", func(t *testing.T) {
		err := Validate(BookForm{})
		fields, ok := AsError(err)
		require.True(t, ok)
		assert.Len(t, fields, 4)
		assert.Contains(t, err.Error(), "Title is required")
	})
}

func TestAsError(t *testing.T) {
	_, ok := AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-02-29T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestBookForm_ToBook(t *testing.T) {
	book, err := validForm().ToBook()
	require.NoError(t, err)
	assert.Zero(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, 412, book.PageCount)
	assert.Equal(t, 1965, book.PublishDate.Year())

	_, err = BookForm{Title: "x"}.ToBook()
	assert.Error(t, err)
}

func TestFormFromBook(t *testing.T) {
	book := entities.Book{
		ID:          3,
		Title:       "Neuromancer",
		Description: "Cyberspace heist",
		PageCount:   271,
		PublishDate: time.Date(1984, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	form := FormFromBook(book)
	assert.Equal(t, "Neuromancer", form.Title)
	assert.Equal(t, 271, form.PageCountValue())
	assert.Equal(t, "1984-07-01", form.PublishDate)

	roundTrip, err := form.ToBook()
	require.NoError(t, err)
	assert.True(t, book.PublishDate.Equal(roundTrip.PublishDate))

	assert.Equal(t, 0, BookForm{}.PageCountValue())
}

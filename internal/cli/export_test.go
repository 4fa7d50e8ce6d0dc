package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/booktable/internal/entities"
)

type staticStore struct {
	books []entities.Book
}

func (s *staticStore) List(ctx context.Context) ([]entities.Book, error) {
	return s.books, nil
}

func (s *staticStore) Get(ctx context.Context, id int) (*entities.Book, error) {
	return nil, os.ErrNotExist
}

func (s *staticStore) Create(ctx context.Context, book entities.Book) (*entities.Book, error) {
	return nil, os.ErrPermission
}

func (s *staticStore) Update(ctx context.Context, id int, book entities.Book) (*entities.Book, error) {
	return nil, os.ErrPermission
}

func (s *staticStore) Delete(ctx context.Context, id int) error {
	return os.ErrPermission
}

func testBooks() []entities.Book {
	return []entities.Book{
		{ID: 1, Title: "Dune", Description: "Desert planet", PageCount: 412, PublishDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Title: "Dune Messiah", Description: "The sequel", PageCount: 256, PublishDate: time.Date(1969, 10, 15, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Title: "Neuromancer", Description: "Cyberspace", PageCount: 271, PublishDate: time.Date(1984, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestExportCommand_ParseFlags(t *testing.T) {
	cmd := NewExportCommand("")
	require.NoError(t, cmd.ParseFlags([]string{"-format", "pdf", "-q", "dune", "-sort", "title", "-dir", "desc"}))
	assert.Equal(t, "pdf", cmd.Format)
	assert.Equal(t, "dune", cmd.Query)
	assert.Equal(t, "books-list", cmd.BaseName)
	assert.Equal(t, "https://fakerestapi.azurewebsites.net/api/v1/Books", cmd.BaseURL)

	local := NewExportCommand("http://localhost:8189/api/v1/Books")
	require.NoError(t, local.ParseFlags(nil))
	assert.Equal(t, "http://localhost:8189/api/v1/Books", local.BaseURL)

	assert.Error(t, NewExportCommand("").ParseFlags([]string{"-format", "csv"}))
}

func TestExportCommand_Run(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cmd := &ExportCommand{
		Format:   "xlsx",
		Query:    "dune",
		SortKey:  "pageCount",
		SortDir:  "asc",
		OutDir:   dir,
		BaseName: "books-list",
		Store:    &staticStore{books: testBooks()},
		Stdout:   &out,
	}

	require.NoError(t, cmd.Run(context.Background()))
	assert.Contains(t, out.String(), "Excel file exported successfully")
	assert.Contains(t, out.String(), "Wrote 2 books")

	f, err := excelize.OpenFile(filepath.Join(dir, "books-list.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("data")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Dune Messiah", rows[1][1])
	assert.Equal(t, "Dune", rows[2][1])
}

func TestExportCommand_RunRejectsBadSort(t *testing.T) {
	cmd := &ExportCommand{
		Format:  "pdf",
		SortKey: "author",
		OutDir:  t.TempDir(),
		Store:   &staticStore{books: testBooks()},
		Stdout:  &bytes.Buffer{},
	}
	assert.Error(t, cmd.Run(context.Background()))
}

// Package exporters serializes a list of books into downloadable files.
package exporters

import (
	"io"

	"github.com/mrlokans/booktable/internal/entities"
	"github.com/mrlokans/booktable/internal/utils"
)

// DefaultBaseName is used when a caller supplies no usable base name.
const DefaultBaseName = "books"

// BookExporter writes books in one file format.
type BookExporter interface {
	// Name is the human name of the format, used in notifications ("Excel", "PDF").
	Name() string
	// Extension includes the leading dot.
	Extension() string
	ContentType() string
	Export(w io.Writer, books []entities.Book) (ExportResult, error)
}

type ExportResult struct {
	Rows     int    `json:"rows"`
	Filename string `json:"filename,omitempty"`
}

// Filename builds the download name for base in the exporter's format.
func Filename(base string, exporter BookExporter) string {
	return utils.SanitizeFilename(base, DefaultBaseName) + exporter.Extension()
}

// ByFormat returns the exporter for a format name ("xlsx" or "pdf").
func ByFormat(format string) (BookExporter, bool) {
	switch format {
	case "xlsx", "excel":
		return NewXLSXExporter(), true
	case "pdf":
		return NewPDFExporter(), true
	}
	return nil, false
}

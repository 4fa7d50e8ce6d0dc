package exporters

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/mrlokans/booktable/internal/entities"
)

const (
	pdfTitle          = "Books List"
	pdfDateLayout     = "01/02/2006"
	descriptionLength = 50
	ellipsis          = "..."

	pdfMargin    = 10.0
	pdfRowHeight = 7.0
)

var pdfColumns = []struct {
	header string
	width  float64
}{
	{"Title", 42},
	{"Description", 105},
	{"Pages", 15},
	{"Publish Date", 28},
}

// PDFExporter writes an A4 document with a heading and a four column table.
// The table header is repeated on every page.
type PDFExporter struct {
	// Compress toggles stream compression. Tests turn it off to inspect the output.
	Compress bool
}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{Compress: true}
}

func (e *PDFExporter) Name() string        { return "PDF" }
func (e *PDFExporter) Extension() string   { return ".pdf" }
func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Export(w io.Writer, books []entities.Book) (ExportResult, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.Compress)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(pdfTitle, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, pdfTitle, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	writeHeader(pdf)

	_, pageHeight := pdf.GetPageSize()
	for _, book := range books {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			writeHeader(pdf)
		}
		cells := []string{
			book.Title,
			truncateDescription(book.Description),
			strconv.Itoa(book.PageCount),
			book.PublishDate.Format(pdfDateLayout),
		}
		pdf.SetFont("Helvetica", "", 8)
		for i, col := range pdfColumns {
			text := fitWidth(pdf, tr(cells[i]), col.width-2)
			pdf.CellFormat(col.width, pdfRowHeight, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return ExportResult{}, fmt.Errorf("write pdf: %w", err)
	}
	return ExportResult{Rows: len(books)}, nil
}

func writeHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, pdfRowHeight, col.header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// truncateDescription keeps the first 50 characters and marks the cut with "...".
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionLength {
		return s
	}
	return string(runes[:descriptionLength]) + ellipsis
}

// fitWidth shortens s until it fits into width at the current font.
func fitWidth(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+ellipsis) > width {
		s = s[:len(s)-1]
	}
	return s + ellipsis
}

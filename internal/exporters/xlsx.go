package exporters

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/booktable/internal/entities"
)

const xlsxSheet = "data"

// XLSXExporter writes a workbook with a single sheet: a header row of field
// names followed by one row per book.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) Name() string      { return "Excel" }
func (e *XLSXExporter) Extension() string { return ".xlsx" }
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) Export(w io.Writer, books []entities.Book) (ExportResult, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return ExportResult{}, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(entities.BookFields))
	for i, field := range entities.BookFields {
		header[i] = field
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return ExportResult{}, fmt.Errorf("write header: %w", err)
	}

	for i, book := range books {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return ExportResult{}, err
		}
		row := []any{
			book.ID,
			book.Title,
			book.Description,
			book.PageCount,
			book.PublishDate.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return ExportResult{}, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return ExportResult{}, fmt.Errorf("write workbook: %w", err)
	}
	return ExportResult{Rows: len(books)}, nil
}

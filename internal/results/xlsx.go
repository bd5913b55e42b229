package results

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/entity"
)

const xlsxSheet = "Results"

// XLSXWriter writes results to one sheet of an Excel workbook.
type XLSXWriter struct {
	Path string
}

func NewXLSXWriter(path string) *XLSXWriter { return &XLSXWriter{Path: path} }

func (w *XLSXWriter) Name() string { return "xlsx" }

func (w *XLSXWriter) WriteResults(_ context.Context, runID uuid.UUID, results []entity.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return err
	}
	activeIndex, _ := f.GetSheetIndex(xlsxSheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Name", "Category", "Value", "Position"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(xlsxSheet, cell, h)
	}

	for i, r := range results {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(xlsxSheet, cell, v)
		}
		write(1, r.Name)
		write(2, string(r.Category))
		// floats stay numeric, datetimes use the text form
		if r.Category == constants.ResultFloat {
			write(3, r.Float)
		} else {
			write(3, r.Text())
		}
		write(4, r.Position)
	}

	_ = f.SetColWidth(xlsxSheet, "A", "A", 28)
	_ = f.SetColWidth(xlsxSheet, "B", "B", 10)
	_ = f.SetColWidth(xlsxSheet, "C", "C", 48)
	_ = f.SetColWidth(xlsxSheet, "D", "D", 10)
	_ = f.SetDocProps(&excelize.DocProperties{Subject: "QC results", Identifier: runID.String()})

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

package tablestore

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"radbound/domain/core"
	"radbound/internal/prawitz"
)

// PreviewSheet is the worksheet written by ExportPreview.
const PreviewSheet = "bounds"

// ExportPreview writes every stride-th row and column of b to an xlsx
// workbook for inspection. Row 1 holds the thresholds t, column A the
// coefficient caps (a+1)/coef_gran.
func ExportPreview(path string, b *prawitz.Bounder, stride int) error {
	if stride < 1 {
		return fmt.Errorf("%w: stride must be positive, got %d", core.ErrInvalidArgument, stride)
	}
	if cols := 2*b.MaxBound()/stride + 2; cols > excelize.MaxColumns {
		return fmt.Errorf("%w: %d columns exceed the sheet limit, raise the stride", core.ErrInvalidArgument, cols)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", PreviewSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(PreviewSheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	header := []interface{}{"a \\ t"}
	for y := 0; y < 2*b.MaxBound(); y += stride {
		header = append(header, float64(y-b.MaxBound()+1)/float64(b.ThreshGran()))
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write preview header: %w", err)
	}

	excelRow := 2
	for a := 0; a < b.CoefGran(); a += stride {
		row := []interface{}{float64(a+1) / float64(b.CoefGran())}
		for y := 0; y < 2*b.MaxBound(); y += stride {
			row = append(row, b.Cell(a, y))
		}
		cell, err := excelize.CoordinatesToCellName(1, excelRow)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write preview row %d: %w", a, err)
		}
		excelRow++
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush preview: %w", err)
	}
	return f.SaveAs(path)
}

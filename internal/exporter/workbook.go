package exporter

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"i94cli/internal/errors"
)

// WriteWorkbook writes all tables into one Excel workbook, one sheet
// per table, for readers who review the aggregates outside the charts.
func WriteWorkbook(ctx context.Context, logger *slog.Logger, path string, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		sheet := sheetName(t.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return errors.NewStorageError("rename workbook sheet", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return errors.NewStorageError("add workbook sheet "+sheet, err)
			}
		}

		for col, name := range t.Columns {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return errors.NewStorageError("compute cell coordinates", err)
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return errors.NewStorageError("write workbook header", err)
			}
		}

		for r, row := range t.Rows {
			for c, value := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return errors.NewStorageError("compute cell coordinates", err)
				}
				if v, err := strconv.ParseFloat(value, 64); err == nil {
					if err := f.SetCellValue(sheet, cell, v); err != nil {
						return errors.NewStorageError("write workbook cell", err)
					}
				} else if err := f.SetCellValue(sheet, cell, value); err != nil {
					return errors.NewStorageError("write workbook cell", err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("save workbook "+path, err)
	}

	logger.InfoContext(ctx, "wrote workbook",
		slog.String("path", path),
		slog.Int("sheets", len(tables)))

	return nil
}

// sheetName fits a table name into Excel's 31-character sheet limit
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}

package impexp

import (
	"context"
	"fmt"
	"io"
	"time"

	"StampVault/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXFileName — имя файла таблицы по умолчанию.
const XLSXFileName = "duck-stamp-vault.xlsx"

// SheetName — лист с записями.
const SheetName = "Stamps"

var xlsxHeader = []interface{}{
	"ID", "Added", "Year", "Scott", "Species", "Artist", "Condition", "Signature",
	"Acquisition", "Purchase Date", "Plate/Pos", "Face Value", "Price", "Est. Value", "Notes",
}

// ExportXLSX пишет записи в книгу Excel с листом Stamps.
func (e *Exchanger) ExportXLSX(ctx context.Context, w io.Writer) error {
	list, err := e.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load stamps: %w", err)
	}
	model.SortNewestFirst(list)

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warnw("xlsx: close workbook", "error", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, s := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(s)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func xlsxRow(s model.Stamp) []interface{} {
	added := ""
	if s.AddedAt != 0 {
		added = time.UnixMilli(s.AddedAt).UTC().Format(time.RFC3339)
	}
	date := ""
	if s.PurchaseDate != nil {
		date = *s.PurchaseDate
	}
	return []interface{}{
		s.ID, added, s.Year, s.Scott, s.Species, s.Artist, s.Condition, s.SignatureType,
		s.Acquisition, date, s.PlatePos,
		nullable(s.FaceValue), s.Price.InexactFloat64(), nullable(s.EstValue), s.Notes,
	}
}

// nullable — пустая ячейка для отсутствующей суммы.
func nullable(v decimal.NullDecimal) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Decimal.InexactFloat64()
}

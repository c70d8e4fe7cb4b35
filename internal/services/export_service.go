package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"niuniq/internal/entities"
)

var productExportHeaders = []interface{}{
	"Product ID", "Name", "Category", "Price", "Raw materials", "Description",
	"Product storage", "Verified", "QR code", "Created at",
}

type ExportServiceInterface interface {
	ProductsWorkbook(store *entities.Store, products []entities.Product) (*bytes.Buffer, error)
}

type ExportService struct{}

func NewExportService() ExportServiceInterface {
	return &ExportService{}
}

func verificationLabel(v *bool) string {
	switch {
	case v == nil:
		return "pending"
	case *v:
		return "yes"
	default:
		return "no"
	}
}

// ProductsWorkbook renders a store's products as a single-sheet xlsx file.
func (s *ExportService) ProductsWorkbook(store *entities.Store, products []entities.Product) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &productExportHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	_ = f.SetCellStyle(sheet, "A1", "J1", style)

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			p.ProductID, p.Name, p.Category, p.Price, p.RawMaterials, p.Description,
			p.ProductStorage, verificationLabel(p.IsVerification), p.QRCode, p.CreatedAt.Format(time.DateTime),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 30)
	_ = f.SetColWidth(sheet, "E", "F", 40)
	_ = f.SetColWidth(sheet, "I", "I", 60)
	if store != nil {
		_ = f.SetDocProps(&excelize.DocProperties{Title: store.Name + " products", Creator: "niuniq"})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

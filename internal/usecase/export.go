package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	ExportJSON    = "json"
	ExportCSV     = "csv"
	ExportSummary = "summary"
	ExportXLSX    = "xlsx"
)

var exportHeader = []string{"Type", "Item Code", "Quantity", "Rate", "Amount", "Start Date", "Stop Date", "Floor", "Billing Period"}

type ExportFile struct {
	FileName    string
	ContentType string
	Format      string
	Data        []byte
}

// Export renders the lead's billing lines as a downloadable file.
func (uc *ClientUseCase) Export(ctx context.Context, leadID, format string) (*ExportFile, error) {
	if format == "" {
		format = ExportJSON
	}
	switch format {
	case ExportJSON, ExportCSV, ExportSummary, ExportXLSX:
	default:
		return nil, NewValidationError(fmt.Sprintf("Unsupported format: %s", format))
	}

	details, err := uc.Details(ctx, leadID)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("lead_%s_%s_%s", leadID, format, uc.Now().Format("20060102_150405"))
	out := &ExportFile{Format: format}

	switch format {
	case ExportJSON:
		out.Data, err = json.MarshalIndent(details, "", "  ")
		out.FileName, out.ContentType = name+".json", "application/json"
	case ExportSummary:
		out.Data, err = json.MarshalIndent(summaryOf(details), "", "  ")
		out.FileName, out.ContentType = name+".txt", "text/plain; charset=utf-8"
	case ExportCSV:
		out.Data, err = billingCSV(exportRows(details))
		out.FileName, out.ContentType = name+".csv", "text/csv"
	case ExportXLSX:
		out.Data, err = billingWorkbook(exportRows(details))
		out.FileName, out.ContentType = name+".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternal, Message: "render export", Err: err}
	}
	return out, nil
}

func exportDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func exportNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func exportRows(d *ClientDetails) [][]string {
	rows := make([][]string, 0, len(d.SeatsRecursion)+len(d.AmenityRecursion))
	for _, group := range [][]RecursionLine{d.SeatsRecursion, d.AmenityRecursion} {
		for _, l := range group {
			rows = append(rows, []string{
				l.Type,
				l.Option,
				exportNumber(l.Quantity),
				exportNumber(l.Rate),
				exportNumber(l.Amount),
				exportDate(l.StartDate),
				exportDate(l.StopDate),
				l.Floor,
				l.BillingPeriod,
			})
		}
	}
	return rows
}

func billingCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const exportSheet = "Billing"

func billingWorkbook(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	all := append([][]string{exportHeader}, rows...)
	for r, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Package export renders cashback data as XLSX reports.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rezapp/marketplace-service/internal/catalog"
	"github.com/rezapp/marketplace-service/internal/format"
)

const activitySheet = "Cashback Activity"

var activityHeader = []string{"Date", "Brand", "Purchase", "Cashback", "Status"}

// ActivityReport renders a cashback history workbook: one row per activity
// entry plus a summary block. The returned bytes are a complete .xlsx file.
func ActivityReport(summary *catalog.CashbackSummary, activity []catalog.CashbackActivity) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(activitySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, name := range activityHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(activitySheet, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, entry := range activity {
		row := i + 2
		values := []any{
			entry.Date.Format("2006-01-02"),
			entry.Brand.Name,
			format.Rupees(entry.PurchaseAmount),
			format.Rupees(entry.CashbackAmount),
			string(entry.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(activitySheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if summary != nil {
		base := len(activity) + 3
		lines := [][2]any{
			{"Total earned", format.Rupees(summary.TotalEarned)},
			{"Pending", format.Rupees(summary.Pending)},
			{"Available", format.Rupees(summary.Available)},
			{"Lifetime orders", summary.LifetimeOrders},
			{"Generated", time.Now().UTC().Format(time.RFC3339)},
		}
		for i, line := range lines {
			labelCell, _ := excelize.CoordinatesToCellName(1, base+i)
			valueCell, _ := excelize.CoordinatesToCellName(2, base+i)
			if err := f.SetCellValue(activitySheet, labelCell, line[0]); err != nil {
				return nil, fmt.Errorf("failed to write summary: %w", err)
			}
			if err := f.SetCellValue(activitySheet, valueCell, line[1]); err != nil {
				return nil, fmt.Errorf("failed to write summary: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

package export

import (
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"github.com/umn-mobility/daynamica-go/internal/models"
	"github.com/umn-mobility/daynamica-go/internal/pipeline"
)

// Workbook bundles the six summary sheets.
type Workbook struct {
	SubtypeConfirmed *models.ValidityTable // hours with a confirmed subtype
	SurveyAnswered   *models.ValidityTable // hours covered by survey answers
	DailySummary     []pipeline.OverviewRow
	Activity         *pipeline.SubtypeTable
	TripSegment      *pipeline.SubtypeTable
	TripComplete     *pipeline.SubtypeTable
}

// WriteWorkbook writes the formatted six-sheet summary workbook.
func WriteWorkbook(path string, wb *Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create workbook styles: %w", err)
	}

	sheets := []struct {
		name  string
		write func(name string) error
	}{
		{"subtype_confirmed_hours", func(n string) error { return writeValiditySheet(f, n, wb.SubtypeConfirmed, styles) }},
		{"survey_answered_hours", func(n string) error { return writeValiditySheet(f, n, wb.SurveyAnswered, styles) }},
		{"daily_summary", func(n string) error { return writeOverviewSheet(f, n, wb.DailySummary, styles) }},
		{"activity_subtype", func(n string) error { return writeSubtypeSheet(f, n, wb.Activity, styles) }},
		{"trip_segment_subtype", func(n string) error { return writeSubtypeSheet(f, n, wb.TripSegment, styles) }},
		{"trip_complete_subtype", func(n string) error { return writeSubtypeSheet(f, n, wb.TripComplete, styles) }},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet.name, err)
		}
		if err := sheet.write(sheet.name); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	log.Printf("[Export] wrote %s", path)
	return nil
}

// sheetStyles holds the three cell formats the workbook uses: centered
// valid-day cells, right-aligned two-decimal statistic cells, and their
// bold header/index variants.
type sheetStyles struct {
	centered     int
	centeredBold int
	numeric      int
	numericBold  int
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	borders := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
	twoDecimals := "0.00"

	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders,
	})
	if err != nil {
		return nil, err
	}
	centeredBold, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders,
		Font:      &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}
	numeric, err := f.NewStyle(&excelize.Style{
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center", WrapText: true},
		Border:       borders,
		CustomNumFmt: &twoDecimals,
	})
	if err != nil {
		return nil, err
	}
	numericBold, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    borders,
		Font:      &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	return &sheetStyles{
		centered:     centered,
		centeredBold: centeredBold,
		numeric:      numeric,
		numericBold:  numericBold,
	}, nil
}

func writeValiditySheet(f *excelize.File, sheet string, table *models.ValidityTable, styles *sheetStyles) error {
	header := table.Header()
	rows := [][]interface{}{toCells(header)}
	for _, row := range table.Rows {
		rec := []interface{}{row.DayOfWeek}
		for _, cell := range row.Cells {
			rec = append(rec, cell.Formatted)
		}
		rec = append(rec, row.TotalDays)
		rows = append(rows, rec)
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return styleSheet(f, sheet, len(rows), len(header), styles.centered, styles.centeredBold, 15, 15)
}

func writeOverviewSheet(f *excelize.File, sheet string, overview []pipeline.OverviewRow, styles *sheetStyles) error {
	rows := [][]interface{}{{"Statistics", "Median", "Mean", "SD", "Min", "Max"}}
	for _, r := range overview {
		rows = append(rows, []interface{}{r.Statistic, r.Median, r.Mean, r.SD, r.Min, r.Max})
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return styleSheet(f, sheet, len(rows), 6, styles.numeric, styles.numericBold, 36, 9)
}

func writeSubtypeSheet(f *excelize.File, sheet string, table *pipeline.SubtypeTable, styles *sheetStyles) error {
	header := []interface{}{subtypeIndexName(table.EpisodeType)}
	for _, col := range table.Columns {
		for _, dayType := range table.DayTypes {
			header = append(header, col+"_"+dayType)
		}
	}
	rows := [][]interface{}{header}
	for _, row := range table.Rows {
		rec := []interface{}{row.Subtype}
		for c := range table.Columns {
			for d := range table.DayTypes {
				rec = append(rec, row.Values[c][d])
			}
		}
		rows = append(rows, rec)
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return styleSheet(f, sheet, len(rows), len(header), styles.numeric, styles.numericBold, 36, 7)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// styleSheet applies the body style to the data cells and the bold style to
// the header row and index column, with the given column widths.
func styleSheet(f *excelize.File, sheet string, nRows, nCols, body, bold int, firstColWidth, colWidth float64) error {
	if nRows == 0 || nCols == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(nCols)
	if err != nil {
		return err
	}
	bottomRight, err := excelize.CoordinatesToCellName(nCols, nRows)
	if err != nil {
		return err
	}

	if nRows > 1 && nCols > 1 {
		topLeft, _ := excelize.CoordinatesToCellName(2, 2)
		if err := f.SetCellStyle(sheet, topLeft, bottomRight, body); err != nil {
			return err
		}
	}
	endOfHeader, _ := excelize.CoordinatesToCellName(nCols, 1)
	if err := f.SetCellStyle(sheet, "A1", endOfHeader, bold); err != nil {
		return err
	}
	endOfIndex, _ := excelize.CoordinatesToCellName(1, nRows)
	if err := f.SetCellStyle(sheet, "A1", endOfIndex, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "A", firstColWidth); err != nil {
		return err
	}
	if nCols > 1 {
		secondCol, _ := excelize.ColumnNumberToName(2)
		if err := f.SetColWidth(sheet, secondCol, lastCol, colWidth); err != nil {
			return err
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX workbook.
const (
	MappingsSheet   = "Mappings"
	ConfidenceSheet = "Confidence"
)

// WriteXLSX writes a workbook with the flat mapping table and the confidence
// histogram.
func WriteXLSX(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(MappingsSheet); err != nil {
		return err
	}

	// Use Stream Writer for performance
	sw, err := f.NewStreamWriter(MappingsSheet)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, e := range doc.Mappings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, e.Row()); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", e.Garmin.ID, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if _, err := f.NewSheet(ConfidenceSheet); err != nil {
		return err
	}
	s := Summarize(doc)
	rows := [][]interface{}{{"confidence_level", "count", "percentage", "avg_distance_meters", "avg_name_similarity"}}
	for _, t := range s.Tiers {
		var avgDist interface{}
		if t.AvgDistance != nil {
			avgDist = *t.AvgDistance
		}
		rows = append(rows, []interface{}{t.Level, t.Count, s.Percent(t.Count), avgDist, t.AvgNameSimilarity})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ConfidenceSheet, cell, &row); err != nil {
			return err
		}
	}

	// Delete default sheet
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	index, err := f.GetSheetIndex(MappingsSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

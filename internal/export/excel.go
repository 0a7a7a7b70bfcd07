// Package export writes recommendations to spreadsheet files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/project-recommender/internal/ranking"
)

const (
	SummarySheet         = "Summary"
	RecommendationsSheet = "Recommendations"
)

var recommendationHeaders = []string{"Rank", "Project", "Matching", "Matching Skills", "Missing Skills", "Similarity"}

// ToExcel writes a summary sheet and a ranked recommendations sheet to path,
// adding the .xlsx extension when missing. It returns the written path.
func ToExcel(recs *ranking.Recommendations, skills []string, path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return "", fmt.Errorf("renaming default sheet: %w", err)
	}
	if _, err := f.NewSheet(RecommendationsSheet); err != nil {
		return "", fmt.Errorf("creating %s sheet: %w", RecommendationsSheet, err)
	}

	if err := writeSummary(f, recs, skills); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRecommendations(f, recs); err != nil {
		return "", fmt.Errorf("failed to create recommendations sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeSummary(f *excelize.File, recs *ranking.Recommendations, skills []string) error {
	if err := f.SetColWidth(SummarySheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 60); err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	withMatch := 0
	for _, rec := range recs.Items {
		if rec.MatchingCount > 0 {
			withMatch++
		}
	}

	rows := [][2]interface{}{
		{"Generated", time.Now().UTC().Format(time.RFC3339)},
		{"Your skills", strings.Join(skills, ", ")},
		{"Recommended projects", recs.Len()},
		{"With matching skills", withMatch},
	}
	if recs.Len() > 0 {
		rows = append(rows, [2]interface{}{"Best match", recs.Items[0].ProjectName})
	}

	for idx, row := range rows {
		line := idx + 1
		label := fmt.Sprintf("A%d", line)
		if err := f.SetCellValue(SummarySheet, label, row[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", line), row[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeRecommendations(f *excelize.File, recs *ranking.Recommendations) error {
	widths := []float64{8, 30, 10, 40, 40, 12}
	for idx, width := range widths {
		col, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(RecommendationsSheet, col, col, width); err != nil {
			return err
		}
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(recommendationHeaders))
	for idx, h := range recommendationHeaders {
		header[idx] = h
	}
	if err := f.SetSheetRow(RecommendationsSheet, "A1", &header); err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(recommendationHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(RecommendationsSheet, "A1", lastHeader, style); err != nil {
		return err
	}

	for idx, rec := range recs.Items {
		row := []interface{}{
			idx + 1,
			rec.ProjectName,
			rec.MatchingCount,
			strings.Join(rec.MatchingSkills, ", "),
			strings.Join(rec.MissingSkills, ", "),
			rec.SimilarityScore,
		}
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RecommendationsSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetPanes(RecommendationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

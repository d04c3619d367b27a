package excel

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"policysim/domain/anchor"
	"policysim/domain/verdict"
	"policysim/internal/errors"
)

// ReportWriter exports verdicts as spreadsheet workbooks, one sheet for the
// verdict header and one for the per-test battery results.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates a writer that saves workbooks under dir.
func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

// Write renders v to an .xlsx file named after its run ID and returns the
// path written.
func (w *ReportWriter) Write(v verdict.Verdict) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSummary(f, v); err != nil {
		return "", err
	}
	if v.Suite != nil {
		if err := w.writeResults(f, *v.Suite); err != nil {
			return "", err
		}
	}

	path := filepath.Join(w.dir, fmt.Sprintf("verdict-%s.xlsx", v.RunID))
	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrap(err, "workbook save failed")
	}
	return path, nil
}

func (w *ReportWriter) writeSummary(f *excelize.File, v verdict.Verdict) error {
	const sheet = "Verdict"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]interface{}{
		{"Model", v.ModelName},
		{"Model ID", v.ModelID.String()},
		{"Run ID", v.RunID.String()},
		{"Eligible", v.Eligible},
		{"Complexity", v.Complexity},
		{"Summary", v.Summary},
		{"Created", v.CreatedAt.Time().Format("2006-01-02 15:04:05")},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell addressing failed")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrap(err, "summary row write failed")
		}
	}

	if len(v.Tier1Failures) > 0 {
		offset := len(rows) + 2
		header := []interface{}{"Structural Check", "Finding"}
		cell, _ := excelize.CoordinatesToCellName(1, offset)
		if err := f.SetSheetRow(sheet, cell, &header); err != nil {
			return errors.Wrap(err, "tier-1 header write failed")
		}
		for i, failure := range v.Tier1Failures {
			row := []interface{}{failure.TestID, failure.Reason}
			cell, _ := excelize.CoordinatesToCellName(1, offset+1+i)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return errors.Wrap(err, "tier-1 row write failed")
			}
		}
	}
	return nil
}

func (w *ReportWriter) writeResults(f *excelize.File, suite anchor.SuiteResult) error {
	const sheet = "Anchor Tests"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "sheet creation failed")
	}

	header := []interface{}{"Test", "Name", "Category", "Passed", "Reason"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "header write failed")
	}
	for i, result := range suite.Results {
		row := []interface{}{
			result.TestID.String(),
			result.Name,
			string(result.Category),
			result.Passed,
			result.Reason,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell addressing failed")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrap(err, "result row write failed")
		}
	}

	tally := []interface{}{"", "", "Total", fmt.Sprintf("%d/%d", suite.Passed, suite.Total), ""}
	cell, err := excelize.CoordinatesToCellName(1, len(suite.Results)+3)
	if err != nil {
		return errors.Wrap(err, "cell addressing failed")
	}
	if err := f.SetSheetRow(sheet, cell, &tally); err != nil {
		return errors.Wrap(err, "tally write failed")
	}
	return nil
}

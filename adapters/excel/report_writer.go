package excel

import (
	"fmt"
	"io"

	"qrnglab/app"

	"github.com/xuri/excelize/v2"
)

// ReportWriter exports one run as an Excel workbook with three sheets:
// Report (summary table), Frequencies (observed vs expected) and
// Samples (raw draws in call order).
type ReportWriter struct{}

// NewReportWriter creates a workbook writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// Write renders the workbook for a run result to w
func (rw *ReportWriter) Write(w io.Writer, result *app.RunResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := rw.writeReportSheet(f, result); err != nil {
		return fmt.Errorf("failed to write report sheet: %w", err)
	}
	if err := rw.writeFrequencySheet(f, result); err != nil {
		return fmt.Errorf("failed to write frequencies sheet: %w", err)
	}
	if err := rw.writeSampleSheet(f, result); err != nil {
		return fmt.Errorf("failed to write samples sheet: %w", err)
	}

	return f.Write(w)
}

func (rw *ReportWriter) writeReportSheet(f *excelize.File, result *app.RunResult) error {
	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	report := result.Report
	rows := [][]interface{}{
		{"Run ID", result.RunID.String()},
		{"Bit source", result.Source},
		{"Width (bits)", int(result.Width)},
		{"Sample size", report.SampleSize},
		{"Mean", report.Mean},
		{"Theoretical mean", report.TheoreticalMean},
		{"Std dev (population)", report.StdDev},
		{"Min", report.Min},
		{"Max", report.Max},
		{"Unique values", report.UniqueValues},
		{"Possible values", report.PossibleValues},
		{"Expected frequency", report.ExpectedFreq},
		{"Chi-square", report.ChiSquare},
		{"Degrees of freedom", report.DegreesFreedom},
		{"P-value", report.PValue},
	}
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

func (rw *ReportWriter) writeFrequencySheet(f *excelize.File, result *app.RunResult) error {
	const sheet = "Frequencies"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Value", "Observed", "Expected"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	expected := result.Report.ExpectedFreq
	for value, count := range result.Table.Counts {
		cell, err := excelize.CoordinatesToCellName(1, value+2)
		if err != nil {
			return err
		}
		row := []interface{}{value, count, expected}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (rw *ReportWriter) writeSampleSheet(f *excelize.File, result *app.RunResult) error {
	const sheet = "Samples"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Index", "Value"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, sample := range result.Samples.Values {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{i, int(sample)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

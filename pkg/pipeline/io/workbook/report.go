package workbook

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/schema"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/report"
)

// ReportSheet is the sheet name used for spreadsheet exports.
const ReportSheet = "Counts"

// WriteReportXLSX writes the report as a single-sheet workbook. Counts are numeric cells,
// except for failed queries where the error string is written instead.
func WriteReportXLSX(w io.Writer, t report.Table, multiEntity bool) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return errors.Wrap(err, "name report sheet")
	}

	header := schema.Report(multiEntity).Header()
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &headerRow); err != nil {
		return errors.Wrap(err, "write header row")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}
	if err := f.SetRowStyle(ReportSheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "style header row")
	}

	for i, r := range t {
		row := make([]any, 0, len(header))
		if multiEntity {
			row = append(row, r.Entity)
		}
		var count any = r.Count
		if r.Failed() {
			count = r.Error
		}
		row = append(row, r.Attribute, r.Type.String(), count, r.Sample)

		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrapf(err, "row %d", i+2)
		}
		if err := f.SetSheetRow(ReportSheet, addr, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

// ReadReportXLSX reads an exported report back into rows, header first. Short rows are padded
// to the header width.
func ReadReportXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open report workbook")
	}
	defer func() {
		_ = f.Close()
	}()

	sheet, ok := findSheet(f, ReportSheet)
	if !ok {
		return nil, errors.Newf("report workbook has no %q sheet", ReportSheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read %q sheet", ReportSheet)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	width := len(rows[0])
	for i := range rows {
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}
	return rows, nil
}

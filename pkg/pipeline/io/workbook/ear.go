// Package workbook reads E-A-R model workbooks and writes spreadsheet reports.
package workbook

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/resolve"
)

const (
	MetadataSheet = "METADATA"
	// TenantCell holds the tenant name on the METADATA sheet.
	TenantCell = "B2"

	ModelSheet      = "E-A-R MODEL"
	EntityColumn    = "ENTITY"
	AttributeColumn = "MAPPED ATTRIBUTE"

	// headerScanRows bounds how far down the model sheet the header row may sit.
	headerScanRows = 20
)

// EAR is the content of an entity-attribute-relationship workbook that matters for a run.
type EAR struct {
	// Tenant is empty when the workbook has no METADATA sheet or the cell is blank.
	Tenant string
	Pairs  []resolve.Pair
}

// ReadEAR reads the tenant name and the entity -> attribute pairs from a workbook.
// A missing model sheet or column is a ConfigError.
func ReadEAR(r io.Reader) (EAR, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return EAR{}, core.NewConfigError(errors.Wrap(err, "open workbook"))
	}
	defer func() {
		_ = f.Close()
	}()

	var out EAR
	if sheet, ok := findSheet(f, MetadataSheet); ok {
		v, err := f.GetCellValue(sheet, TenantCell)
		if err != nil {
			return EAR{}, core.NewConfigError(errors.Wrapf(err, "read %s!%s", MetadataSheet, TenantCell))
		}
		out.Tenant = strings.TrimSpace(v)
	}

	sheet, ok := findSheet(f, ModelSheet)
	if !ok {
		return EAR{}, core.NewConfigError(errors.WithHintf(
			errors.Newf("workbook has no %q sheet", ModelSheet),
			"sheets present: %s", strings.Join(f.GetSheetList(), ", "),
		))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return EAR{}, core.NewConfigError(errors.Wrapf(err, "read %q sheet", ModelSheet))
	}

	headerIdx, entityIdx, attrIdx := -1, -1, -1
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		e, a := columnIndex(rows[i], EntityColumn), columnIndex(rows[i], AttributeColumn)
		if e >= 0 && a >= 0 {
			headerIdx, entityIdx, attrIdx = i, e, a
			break
		}
	}
	if headerIdx < 0 {
		return EAR{}, core.NewConfigError(errors.Newf(
			"%q sheet must have %q and %q columns", ModelSheet, EntityColumn, AttributeColumn,
		))
	}

	for _, row := range rows[headerIdx+1:] {
		out.Pairs = append(out.Pairs, resolve.Pair{
			Entity:    cell(row, entityIdx),
			Attribute: cell(row, attrIdx),
		})
	}
	return out, nil
}

func findSheet(f *excelize.File, name string) (string, bool) {
	for _, s := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return s, true
		}
	}
	return "", false
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}

// cell tolerates short rows; excelize trims trailing empty cells.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

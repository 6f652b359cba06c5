package local

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/report"
)

// ReadAttributeColumn reads a single-column CSV of attribute names (first row is the header)
// and returns the raw values below the header.
//
// Any file that is not exactly one column wide is a ConfigError.
func ReadAttributeColumn(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, core.NewConfigError(errors.New("attribute CSV is empty"))
	}
	if err != nil {
		return nil, core.NewConfigError(errors.Wrap(err, "read header"))
	}
	if len(header) != 1 {
		return nil, core.NewConfigError(errors.WithHint(
			errors.Newf("CSV must contain exactly one column with attribute names, got %d", len(header)),
			"remove every column except the attribute names",
		))
	}

	var attrs []string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewConfigError(errors.Wrapf(err, "read row %d", line))
		}
		if len(rec) != 1 {
			return nil, core.NewConfigError(errors.Newf("row %d has %d columns, want 1", line, len(rec)))
		}
		attrs = append(attrs, rec[0])
	}
	return attrs, nil
}

// WriteReportCSV writes the report with its header row.
func WriteReportCSV(w io.Writer, t report.Table, multiEntity bool) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.WithHeader(multiEntity)); err != nil {
		return errors.Wrap(err, "write report csv")
	}
	return nil
}

// ReadReportCSV reads a report CSV back into rows, header first.
func ReadReportCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read report csv")
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

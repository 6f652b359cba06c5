package app

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/io/local"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/io/workbook"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/schema"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/report"
)

// DefaultOutputName is used when an export format is requested without a path.
const DefaultOutputName = "attribute_counts"

// Export writes the report to path. format may be empty, in which case the path's
// extension decides.
func Export(path, format string, t report.Table, multiEntity bool) (string, error) {
	f := schema.NormalizeExportFormat(format)
	if strings.TrimSpace(format) == "" {
		f = schema.NormalizeExportFormat(path)
	}
	if strings.TrimSpace(path) == "" {
		path = DefaultOutputName + "." + string(f)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create output file")
	}
	defer func() {
		_ = out.Close()
	}()

	if err := WriteReport(out, f, t, multiEntity); err != nil {
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrap(err, "close output file")
	}
	return path, nil
}

// WriteReport serializes the report in the given format.
func WriteReport(w io.Writer, f schema.ExportFormat, t report.Table, multiEntity bool) error {
	switch f {
	case schema.ExportFormatXLSX:
		return workbook.WriteReportXLSX(w, t, multiEntity)
	default:
		return local.WriteReportCSV(w, t, multiEntity)
	}
}

// RenderTable prints the report as a terminal table followed by a one-line summary.
func RenderTable(w io.Writer, t report.Table, multiEntity bool) error {
	if err := pterm.DefaultTable.
		WithHasHeader().
		WithWriter(w).
		WithData(pterm.TableData(t.WithHeader(multiEntity))).
		Render(); err != nil {
		return errors.Wrap(err, "render results table")
	}
	s := report.Summarize(t)
	pterm.Fprintln(w, pterm.Sprintf(
		"%d attributes: %d with values, %d empty, %d failed (%d simple, %d non-simple)",
		s.Total, s.Populated, s.Empty, s.Failed, s.Simple, s.NonSimple,
	))
	return nil
}

package schema

import (
	"path/filepath"
	"strings"
)

// Column names of the report table, in output order.
const (
	ColumnEntity        = "Entity"
	ColumnAttribute     = "Attribute"
	ColumnAttributeType = "Attribute Type"
	ColumnCount         = "Count"
	ColumnSampleData    = "Sample Data"
)

// ExportFormat is a report serialization target.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// Field captures the behavior-relevant column fields.
type Field struct {
	Name     string
	Type     string
	Nullable bool
}

// ReportContract is the column contract shared by display and every export format.
type ReportContract struct {
	MultiEntity bool
	Fields      []Field
}

// Report returns the column contract. The Entity column only appears for multi-entity runs.
func Report(multiEntity bool) ReportContract {
	var fields []Field
	if multiEntity {
		fields = append(fields, Field{Name: ColumnEntity, Type: "string"})
	}
	fields = append(fields,
		Field{Name: ColumnAttribute, Type: "string"},
		Field{Name: ColumnAttributeType, Type: "string"},
		// Integer, or the error string when the query failed.
		Field{Name: ColumnCount, Type: "integer|string"},
		Field{Name: ColumnSampleData, Type: "string", Nullable: true},
	)
	return ReportContract{MultiEntity: multiEntity, Fields: fields}
}

// Header returns the column names in order.
func (c ReportContract) Header() []string {
	out := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		out[i] = f.Name
	}
	return out
}

// Index returns the position of the named column, or -1.
func (c ReportContract) Index(name string) int {
	for i, f := range c.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// NormalizeExportFormat accepts a format name or an output path. Unknown input defaults to CSV.
func NormalizeExportFormat(raw string) ExportFormat {
	s := strings.TrimSpace(strings.ToLower(raw))
	if ext := filepath.Ext(s); ext != "" {
		s = strings.TrimPrefix(ext, ".")
	}
	switch s {
	case "xlsx", "excel", "xls":
		return ExportFormatXLSX
	default:
		return ExportFormatCSV
	}
}

package export

import (
	"fmt"
	"time"

	"taskboard/internal/core/domain"
)

// Serializer turns a task set into one export format. Every format is a
// real implementation; there are no placeholder fallbacks.
type Serializer interface {
	Extension() string
	ContentType() string
	Serialize(tasks []domain.Task) ([]byte, error)
}

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatJSON = "json"

	labelUnassigned = "Unassigned"
	labelNoDate     = "No date"

	dueDateLayout   = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// ForFormat returns the serializer for a format name.
func ForFormat(format string) (Serializer, error) {
	switch format {
	case FormatCSV:
		return CSVSerializer{}, nil
	case FormatXLSX:
		return XLSXSerializer{}, nil
	case FormatPDF:
		return PDFSerializer{}, nil
	case FormatJSON:
		return JSONSerializer{}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

func assigneeName(t domain.Task) string {
	if t.AssignedUser != nil {
		return t.AssignedUser.Name
	}
	return labelUnassigned
}

func dueDateLabel(t domain.Task) string {
	if t.DueDate != nil {
		return t.DueDate.Format(dueDateLayout)
	}
	return labelNoDate
}

func timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func description(t domain.Task) string {
	if t.Description != nil {
		return *t.Description
	}
	return ""
}

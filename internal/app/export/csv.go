package export

import (
	"bytes"
	"encoding/csv"

	"taskboard/internal/core/domain"
)

var csvHeader = []string{
	"ID",
	"Title",
	"Description",
	"Status",
	"Priority",
	"Assigned To",
	"Due Date",
	"Created At",
	"Updated At",
}

type CSVSerializer struct{}

func (CSVSerializer) Extension() string   { return "csv" }
func (CSVSerializer) ContentType() string { return "text/csv" }

func (CSVSerializer) Serialize(tasks []domain.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, task := range tasks {
		record := []string{
			task.ID.String(),
			task.Title,
			description(task),
			string(task.Status),
			string(task.Priority),
			assigneeName(task),
			dueDateLabel(task),
			timestamp(task.CreatedAt),
			timestamp(task.UpdatedAt),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

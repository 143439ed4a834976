package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"taskboard/internal/core/domain"
)

const xlsxSheet = "Tasks"

type XLSXSerializer struct{}

func (XLSXSerializer) Extension() string { return "xlsx" }
func (XLSXSerializer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXSerializer) Serialize(tasks []domain.Task) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", xlsxSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}

	for col, title := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(xlsxSheet, cell, title); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "I1", headerStyle); err != nil {
		return nil, err
	}

	for i, task := range tasks {
		row := i + 2
		values := []any{
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
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(xlsxSheet, "B", "C", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(xlsxSheet, "D", "I", 18); err != nil {
		return nil, err
	}
	// Keep the header visible while scrolling.
	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

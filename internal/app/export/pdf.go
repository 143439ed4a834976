package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"taskboard/internal/core/domain"
)

type PDFSerializer struct{}

func (PDFSerializer) Extension() string   { return "pdf" }
func (PDFSerializer) ContentType() string { return "application/pdf" }

var pdfColumns = []struct {
	Title string
	Width float64
}{
	{"ID", 72},
	{"Title", 90},
	{"Status", 30},
	{"Priority", 28},
	{"Assigned To", 57},
}

// Serialize renders a paginated landscape table. fpdf writes cell content
// as text, so task fields cannot inject markup into the document.
func (PDFSerializer) Serialize(tasks []domain.Task) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, "Task Report", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(221, 235, 247)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.Width, 8, col.Title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 9)
	for _, task := range tasks {
		cells := []string{
			task.ID.String(),
			truncate(task.Title, 52),
			string(task.Status),
			string(task.Priority),
			truncate(assigneeName(task), 32),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.Width, 7, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

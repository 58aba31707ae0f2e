package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// RenderPDF writes the report as a formatted PDF document: header, candidate
// summary, per-kind totals, then canonical events grouped by date. Pure
// presentation over an already-computed report.
func RenderPDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Proctoring Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Candidate Name: %s", r.CandidateName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Candidate ID: %s", r.SessionID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Interview Duration: %s", r.InterviewDuration), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Integrity Score: %d", r.IntegrityScore), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Event Summary:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	summary := []struct {
		label string
		count int
	}{
		{"Focus Lost", r.FocusLost},
		{"Absence", r.Absence},
		{"Multiple Faces", r.MultipleFaces},
		{"Phone Detected", r.PhoneDetected},
		{"Book Detected", r.BookDetected},
		{"Laptop Detected", r.LaptopDetected},
	}
	for _, item := range summary {
		pdf.CellFormat(0, 6, fmt.Sprintf("- %s: %d", item.label, item.count), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Detailed Logs:", "", 1, "L", false, 0, "")

	// Events are already chronological; emit a date heading whenever it changes.
	currentDate := ""
	for _, obs := range r.Events {
		date := obs.OccurredAt.Format("2006-01-02")
		if date != currentDate {
			currentDate = date
			pdf.SetFont("Helvetica", "BU", 12)
			pdf.CellFormat(0, 8, date+":", "", 1, "L", false, 0, "")
		}
		pdf.SetFont("Helvetica", "", 10)
		line := fmt.Sprintf("  %s - %s",
			obs.OccurredAt.Format("15:04:05"),
			strings.ReplaceAll(string(obs.Kind), "_", " "),
		)
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

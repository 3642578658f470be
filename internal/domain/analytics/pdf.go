package analytics

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF renders an envelope as a printable report.
func RenderPDF(envelope Envelope) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Subject: %s", envelope.SubjectName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", envelope.Window.Label))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Template: %s", envelope.Template))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Data sufficiency: %s", envelope.Sufficiency.Tier))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Key Metrics")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range keyMetricLines(envelope.Metrics) {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	if len(envelope.Members) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Members")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, m := range envelope.Members {
			pdf.Cell(0, 6, fmt.Sprintf("%s: %.1f%% completion, rating %.1f", m.Name, m.CompletionRate, m.AvgRating))
			pdf.Ln(6)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Narrative")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, envelope.Narrative, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func keyMetricLines(m Metrics) []string {
	var lines []string
	add := func(label, key, suffix string) {
		if _, ok := m[key]; !ok {
			return
		}
		if v, ok := metricFloat(m, key); ok {
			lines = append(lines, fmt.Sprintf("%s: %.1f%s", label, v, suffix))
		}
	}
	add("Goal completion rate", "goal_completion_rate", "%")
	add("On-time completion rate", "on_time_completion_rate", "%")
	add("Average feedback rating", "avg_feedback_rating", "")
	add("Attendance rate", "attendance_rate", "%")
	add("Training completion rate", "training_completion_rate", "%")
	return lines
}

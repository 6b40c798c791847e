// Package pdf renders prescription reports. Rendering is deterministic:
// the same input under the same clock produces identical bytes, which keeps
// the output diffable and testable.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/hms/hms/pkg/apperr"
)

// Prescription is the flattened view of an appointment aggregate that the
// renderer consumes.
type Prescription struct {
	PatientName     string
	DoctorName      string
	AppointmentDate time.Time
	VisitType       string
	Diagnosis       string
	Notes           string
	Lines           []Line
}

// Line is a single prescribed medicine row.
type Line struct {
	MedicineName string
	Dosage       string
	StartDate    time.Time
	EndDate      time.Time
	Notes        string
}

// Renderer produces prescription report PDFs.
type Renderer struct {
	now      func() time.Time
	compress bool
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now, compress: true}
}

// Filename returns the canonical download name for a prescription report.
func Filename(firstName, lastName string, appointmentDate time.Time) string {
	return fmt.Sprintf("Prescription_%s_%s_%s.pdf", firstName, lastName, appointmentDate.Format("20060102"))
}

// Render lays out the report on an A4 page: title, side-by-side patient and
// doctor blocks, then Diagnosis, Notes, and the Prescriptions table. The
// latter three sections are omitted entirely when they have no content.
func (r *Renderer) Render(p Prescription) ([]byte, error) {
	now := r.now()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Prescription Report", true)
	doc.SetCreationDate(now)
	doc.SetModificationDate(now)
	doc.SetCompression(r.compress)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 25)

	doc.SetFooterFunc(func() {
		doc.SetY(-18)
		doc.SetFont("Arial", "", 9)
		doc.SetTextColor(0, 0, 0)
		doc.CellFormat(0, 8, "Generated on "+now.Format("02-Jan-2006 15:04"), "", 0, "C", false, 0, "")
	})

	doc.AddPage()

	doc.SetFont("Arial", "B", 20)
	doc.SetTextColor(41, 98, 255)
	doc.CellFormat(0, 12, "Prescription Report", "", 1, "L", false, 0, "")
	doc.Ln(4)
	doc.SetTextColor(0, 0, 0)

	const colWidth = 85.0
	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(colWidth, 8, "Patient Information", "", 0, "L", false, 0, "")
	doc.CellFormat(colWidth, 8, "Doctor Information", "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 12)
	doc.CellFormat(colWidth, 7, "Patient: "+p.PatientName, "", 0, "L", false, 0, "")
	doc.CellFormat(colWidth, 7, "Doctor: "+p.DoctorName, "", 1, "L", false, 0, "")
	doc.CellFormat(colWidth, 7, "Date: "+p.AppointmentDate.Format("02-Jan-2006"), "", 0, "L", false, 0, "")
	doc.CellFormat(colWidth, 7, "Visit Type: "+p.VisitType, "", 1, "L", false, 0, "")
	doc.Ln(8)

	if p.Diagnosis != "" {
		section(doc, "Diagnosis", p.Diagnosis)
	}
	if p.Notes != "" {
		section(doc, "Notes", p.Notes)
	}
	if len(p.Lines) > 0 {
		prescriptionTable(doc, p.Lines)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, apperr.Wrap(apperr.KindRender, err, "render prescription pdf")
	}
	return buf.Bytes(), nil
}

func section(doc *fpdf.Fpdf, title, body string) {
	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 12)
	doc.MultiCell(0, 6, body, "", "L", false)
	doc.Ln(6)
}

func prescriptionTable(doc *fpdf.Fpdf, lines []Line) {
	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 8, "Prescriptions", "", 1, "L", false, 0, "")
	doc.Ln(2)

	widths := []float64{45, 28, 26, 26, 45}
	headers := []string{"Medicine", "Dosage", "Start Date", "End Date", "Notes"}

	doc.SetFont("Arial", "B", 11)
	doc.SetFillColor(235, 235, 235)
	for i, h := range headers {
		doc.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Arial", "", 11)
	for _, line := range lines {
		notes := line.Notes
		if notes == "" {
			notes = "-"
		}
		cells := []string{
			line.MedicineName,
			line.Dosage,
			line.StartDate.Format("02-Jan-06"),
			line.EndDate.Format("02-Jan-06"),
			notes,
		}
		for i, cell := range cells {
			doc.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(6)
}

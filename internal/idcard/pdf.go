// Package idcard renders printable student ID cards as PDF documents.
package idcard

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/nbaliev/campushub/internal/models"
)

// Standard CR80 card size in millimeters.
const (
	cardWidth  = 85.6
	cardHeight = 54.0
)

// Renderer draws ID cards for one institution.
type Renderer struct {
	institution string
}

// NewRenderer creates a renderer branded with the institution name.
func NewRenderer(institution string) *Renderer {
	if institution == "" {
		institution = "CampusHub"
	}
	return &Renderer{institution: institution}
}

// Render produces a single-page PDF card for the student.
func (r *Renderer) Render(student *models.Student) ([]byte, error) {
	if student.RollID == "" {
		return nil, fmt.Errorf("student has no roll id")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cardWidth, Ht: cardHeight},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header band with institution name.
	pdf.SetFillColor(21, 67, 96)
	pdf.Rect(0, 0, cardWidth, 12, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(4, 3)
	pdf.CellFormat(cardWidth-8, 6, r.institution, "", 0, "C", false, 0, "")

	pdf.SetTextColor(30, 30, 30)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(4, 15)
	pdf.CellFormat(cardWidth-8, 6, student.FirstName+" "+student.LastName, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	y := 23.0
	rows := []struct {
		label string
		value string
	}{
		{"Roll ID", student.RollID},
		{"Email", student.Email},
		{"CNIC", student.CNIC},
		{"Status", string(student.Status)},
	}
	if len(student.Enrollments) > 0 {
		rows = append(rows, struct {
			label string
			value string
		}{"Course", student.Enrollments[0].CourseName})
	}
	for _, row := range rows {
		pdf.SetXY(4, y)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(18, 5, row.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(cardWidth-26, 5, row.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 6)
	pdf.SetXY(4, cardHeight-7)
	issued := time.Now().UTC().Format("2006-01-02")
	pdf.CellFormat(cardWidth-8, 4, "Issued "+issued+". This card remains property of the institution.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render id card: %w", err)
	}
	return buf.Bytes(), nil
}

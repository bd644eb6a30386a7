package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Fawadali4423/UEMS/internal/domain"
)

// A4 landscape page size in millimeters.
const (
	pageWidth  = 297.0
	pageHeight = 210.0
)

type pdfRenderer struct{}

// NewPDFRenderer returns a CertificateRenderer producing A4 landscape
// PDFs with fpdf. Specs with a template image get the full-bleed
// templated layout; everything else gets the default layout.
func NewPDFRenderer() domain.CertificateRenderer {
	return &pdfRenderer{}
}

func (r *pdfRenderer) Render(spec domain.RenderSpec) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if len(spec.TemplateImage) > 0 {
		renderTemplated(pdf, spec)
	} else {
		renderDefault(pdf, spec)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// renderTemplated draws the background image across the whole page and
// overlays the configured dynamic fields, anchored top-left at their
// normalized coordinates.
func renderTemplated(pdf *fpdf.Fpdf, spec domain.RenderSpec) {
	imageType := templateImageType(spec.TemplateExt)
	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader("template", opts, bytes.NewReader(spec.TemplateImage))
	pdf.ImageOptions("template", 0, 0, pageWidth, pageHeight, false, opts, 0, "")

	if p, ok := spec.Config[domain.FieldStudentName]; ok {
		drawOverlay(pdf, p, spec.StudentName, domain.DefaultNameFontSize, "B")
	}
	if p, ok := spec.Config[domain.FieldRollNumber]; ok && spec.RollNumber != "" {
		drawOverlay(pdf, p, spec.RollNumber, domain.DefaultRollFontSize, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(85, 85, 85)
	pdf.SetXY(pageWidth-110, pageHeight-12)
	pdf.CellFormat(100, 5, "Certificate ID: "+spec.CertUID, "", 0, "R", false, 0, "")
}

func drawOverlay(pdf *fpdf.Fpdf, p domain.FieldPlacement, text string, defaultSize float64, style string) {
	size := p.FontSize
	if size == 0 {
		size = defaultSize
	}
	red, green, blue := parseHexColor(p.Color)
	pdf.SetFont("Helvetica", style, size)
	pdf.SetTextColor(red, green, blue)
	pdf.Text(p.X*pageWidth, p.Y*pageHeight+pdf.PointConvert(size), text)
}

// renderDefault draws the fixed certificate layout: bordered page,
// header, underlined student name, event title, long-form date,
// signature block, and the certificate id footer.
func renderDefault(pdf *fpdf.Fpdf, spec domain.RenderSpec) {
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(2.5)
	pdf.Rect(8, 8, pageWidth-16, pageHeight-16, "D")

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetXY(0, 30)
	pdf.CellFormat(pageWidth, 16, "Certificate of Completion", "", 0, "C", false, 0, "")

	pdf.SetTextColor(85, 85, 85)
	pdf.SetFont("Helvetica", "", 18)
	pdf.SetXY(0, 56)
	pdf.CellFormat(pageWidth, 10, "This is to certify that", "", 0, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "BU", 28)
	pdf.SetXY(0, 74)
	pdf.CellFormat(pageWidth, 14, spec.StudentName, "", 0, "C", false, 0, "")

	y := 92.0
	if spec.RollNumber != "" {
		pdf.SetTextColor(85, 85, 85)
		pdf.SetFont("Helvetica", "", 14)
		pdf.SetXY(0, y)
		pdf.CellFormat(pageWidth, 8, "("+spec.RollNumber+")", "", 0, "C", false, 0, "")
		y += 12
	}

	pdf.SetTextColor(102, 102, 102)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(0, y)
	pdf.CellFormat(pageWidth, 8, "has successfully attended and completed the event", "", 0, "C", false, 0, "")
	pdf.SetTextColor(34, 34, 34)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, y+10)
	pdf.CellFormat(pageWidth, 10, spec.EventTitle, "", 0, "C", false, 0, "")

	pdf.SetTextColor(119, 119, 119)
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetXY(0, y+28)
	pdf.CellFormat(pageWidth, 8, "Date: "+longDate(spec.EventDate), "", 0, "C", false, 0, "")

	pdf.SetDrawColor(51, 51, 51)
	pdf.SetLineWidth(0.6)
	pdf.Line(pageWidth/2-35, pageHeight-42, pageWidth/2+35, pageHeight-42)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(0, pageHeight-40)
	pdf.CellFormat(pageWidth, 8, "Organizer", "", 0, "C", false, 0, "")

	pdf.SetTextColor(153, 153, 153)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(0, pageHeight-22)
	pdf.CellFormat(pageWidth, 5, "Certificate ID: "+spec.CertUID, "", 0, "C", false, 0, "")
}

// longDate formats a "2006-01-02" day as "January 02, 2006"; malformed
// dates are passed through unchanged.
func longDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 02, 2006")
}

func templateImageType(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "JPG"
	case "gif":
		return "GIF"
	default:
		return "PNG"
	}
}

// parseHexColor parses "#RRGGBB" (or "RRGGBB"); anything else is black.
func parseHexColor(s string) (r, g, b int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}

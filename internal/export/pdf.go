package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/unclebandit/crm-backend/internal/model"
)

// Page geometry in millimetres, A4 portrait.
const (
	pageMargin = 15.0
	rowHeight  = 10.0

	// pageContentLimit is the cursor position after which the next row starts
	// a new page: 20 rows fit under the title block on page one, 24 on each
	// continuation page.
	pageContentLimit = 250.0
)

type pdfColumn struct {
	title string
	width float64
	value func(model.Customer) string
}

var pdfColumns = []pdfColumn{
	{"ID", 15, func(c model.Customer) string { return strconv.FormatInt(c.ID, 10) }},
	{"Name", 55, func(c model.Customer) string { return c.FullName() }},
	{"Email", 70, func(c model.Customer) string { return c.Email }},
	{"Phone", 40, func(c model.Customer) string { return c.Phone }},
}

// ToPDF renders records as a paginated table. An empty input is valid and
// produces a table with no rows and a zero total.
func ToPDF(records []model.Customer, generatedAt time.Time) ([]byte, error) {
	doc := renderPDF(records, generatedAt)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDF(records []model.Customer, generatedAt time.Time) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, pageMargin)
	doc.SetCreationDate(generatedAt)
	doc.SetTitle("Customer List", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, "Customer List", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 8, "Generated: "+generatedAt.Format(dateLayout), "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 11)
	for _, col := range pdfColumns {
		doc.CellFormat(col.width, rowHeight, col.title, "", 0, "L", false, 0, "")
	}
	doc.Ln(rowHeight)
	separator(doc)

	// Core fonts are cp1252; translate UTF-8 input so accented names survive.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "", 10)
	for i, c := range records {
		if doc.GetY() > pageContentLimit {
			doc.AddPage()
		}
		for _, col := range pdfColumns {
			doc.CellFormat(col.width, rowHeight, fit(doc, tr(col.value(c)), col.width), "", 0, "L", false, 0, "")
		}
		doc.Ln(rowHeight)
		if i < len(records)-1 {
			separator(doc)
		}
	}

	if doc.GetY() > pageContentLimit {
		doc.AddPage()
	}
	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, rowHeight, fmt.Sprintf("Total Customers: %d", len(records)), "", 1, "L", false, 0, "")

	return doc
}

func separator(doc *fpdf.Fpdf) {
	left, _, right, _ := doc.GetMargins()
	width, _ := doc.GetPageSize()
	y := doc.GetY()
	doc.Line(left, y, width-right, y)
}

// fit truncates s with an ellipsis so it stays inside a cell of width w.
// s is already single-byte encoded, so it is cut byte by byte.
func fit(doc *fpdf.Fpdf, s string, w float64) string {
	const padding = 2.0
	if doc.GetStringWidth(s) <= w-padding {
		return s
	}
	b := []byte(s)
	for len(b) > 0 {
		b = b[:len(b)-1]
		candidate := string(b) + "..."
		if doc.GetStringWidth(candidate) <= w-padding {
			return candidate
		}
	}
	return ""
}

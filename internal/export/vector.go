package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageCenterX = 105.0
	tableLeft   = 15.0
	tableWidth  = 180.0
	rowHeight   = 10.0
	pageTopY    = 20.0
	pageBottomY = 270.0
	footerY     = 285.0
)

// Disclaimer lines printed by the simplified layout.
const (
	DisclaimerLine1 = "Note: non-Latin text may not display correctly in this PDF."
	DisclaimerLine2 = "For proper display, please use the HTML export."
)

// VectorPDF draws the list with text and shape primitives using the core
// Helvetica font. Text the font cannot encode prints as dots, so lists with
// Devanagari get a simplified layout that says so.
type VectorPDF struct {
	Compress bool
}

func (v *VectorPDF) Name() string { return StrategyVectorPDF }

func (v *VectorPDF) Render(_ context.Context, doc Document) (Artifact, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(v.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(Footer, true)
	pdf.SetTitle(doc.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if doc.HasNonLatinScript() {
		drawSimple(pdf, tr, doc)
	} else {
		drawTable(pdf, tr, doc)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	textCentered(pdf, pageCenterX, footerY, Footer)

	if pdf.Err() {
		return Artifact{}, fmt.Errorf("build pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("write pdf: %w", err)
	}
	return Artifact{
		FileName:  FileName(doc.Title, "pdf"),
		MediaType: mediaPDF,
		Strategy:  StrategyVectorPDF,
		Data:      buf.Bytes(),
	}, nil
}

// rowPos is where one item row lands.
type rowPos struct {
	Page int // 0-based
	Y    float64
}

// layoutRows assigns every row a page and baseline. Once the cursor passes
// pageBottomY a new page starts at pageTopY.
func layoutRows(n int, firstY float64) []rowPos {
	out := make([]rowPos, n)
	page, y := 0, firstY
	for i := range out {
		if y > pageBottomY {
			page++
			y = pageTopY
		}
		out[i] = rowPos{Page: page, Y: y}
		y += rowHeight
	}
	return out
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, doc Document) {
	pdf.SetFont("Helvetica", "", 20)
	pdf.SetTextColor(40, 40, 40)
	textCentered(pdf, pageCenterX, 20, tr(doc.Title))

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(15, 35, "Created: "+doc.CreatedLabel())
	textRight(pdf, 195, 35, "Total Items: "+strconv.Itoa(len(doc.Items)))

	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(tableLeft, 45, tableWidth, 10, "F")
	pdf.SetTextColor(0, 0, 0)
	cols := []float64{20, 40, 100, 120, 160}
	for i, h := range []string{"#", "Item", "Qty", "Unit", "Preparation"} {
		pdf.Text(cols[i], 52, h)
	}

	pdf.SetFont("Helvetica", "", 11)
	page := 0
	for i, pos := range layoutRows(len(doc.Items), 65) {
		if pos.Page != page {
			pdf.AddPage()
			page = pos.Page
		}
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
			pdf.Rect(tableLeft, pos.Y-6, tableWidth, 8, "F")
		}
		it := doc.Items[i]
		pdf.Text(cols[0], pos.Y, strconv.Itoa(i+1))
		pdf.Text(cols[1], pos.Y, tr(it.Name))
		pdf.Text(cols[2], pos.Y, strconv.Itoa(it.Quantity))
		pdf.Text(cols[3], pos.Y, tr(string(it.Unit)))
		pdf.Text(cols[4], pos.Y, tr(it.PreparationOrDash()))
	}
}

func drawSimple(pdf *fpdf.Fpdf, tr func(string) string, doc Document) {
	pdf.SetFont("Helvetica", "", 18)
	pdf.SetTextColor(40, 40, 40)
	y := 20.0
	textCentered(pdf, pageCenterX, y, "GROCERY LIST")
	y += 10

	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(20, y, "List: "+tr(doc.Title))
	y += 10

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(20, y, "Created: "+doc.CreatedLabel())
	textRight(pdf, 180, y, "Total Items: "+strconv.Itoa(len(doc.Items)))
	y += 15

	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(tableLeft, y, tableWidth, 10, "F")
	y += 7
	cols := []float64{20, 35, 90, 110, 140}
	for i, h := range []string{"#", "Item", "Qty", "Unit", "Prep"} {
		pdf.Text(cols[i], y, h)
	}
	y += 10
	pdf.Line(tableLeft, y, tableLeft+tableWidth, y)
	y += 10

	page := 0
	for i, pos := range layoutRows(len(doc.Items), y) {
		if pos.Page != page {
			pdf.AddPage()
			page = pos.Page
		}
		it := doc.Items[i]
		pdf.Text(cols[0], pos.Y, strconv.Itoa(i+1))
		pdf.Text(cols[1], pos.Y, tr(it.Name))
		pdf.Text(cols[2], pos.Y, strconv.Itoa(it.Quantity))
		pdf.Text(cols[3], pos.Y, tr(string(it.Unit)))
		pdf.Text(cols[4], pos.Y, tr(it.PreparationOrDash()))
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 0, 0)
	textCentered(pdf, pageCenterX, 275, DisclaimerLine1)
	textCentered(pdf, pageCenterX, 280, DisclaimerLine2)
}

func textCentered(pdf *fpdf.Fpdf, cx, y float64, s string) {
	pdf.Text(cx-pdf.GetStringWidth(s)/2, y, s)
}

func textRight(pdf *fpdf.Fpdf, right, y float64, s string) {
	pdf.Text(right-pdf.GetStringWidth(s), y, s)
}

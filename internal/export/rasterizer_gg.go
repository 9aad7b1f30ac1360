package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/fogleman/gg"
)

// Raster layout in CSS-like pixels before scaling.
const (
	rasterCanvasWidth = 800.0
	rasterPadding     = 40.0
	rasterRowHeight   = 38.0
	rasterHeaderH     = 44.0
)

// FontRasterizer draws the list table with a TrueType font from disk,
// typically one covering Devanagari such as Noto Sans Devanagari.
type FontRasterizer struct {
	FontPath string
}

// NewFontRasterizer returns nil when no font is configured, which leaves
// the raster capability switched off.
func NewFontRasterizer(fontPath string) Rasterizer {
	if fontPath == "" {
		return nil
	}
	return &FontRasterizer{FontPath: fontPath}
}

func (f *FontRasterizer) Rasterize(ctx context.Context, doc Document, scale float64) (image.Image, error) {
	if f.FontPath == "" {
		return nil, errors.New("no font configured")
	}
	if scale <= 0 {
		scale = 1
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	titleBlock := 110.0
	height := rasterPadding*2 + titleBlock + rasterHeaderH + rasterRowHeight*float64(len(doc.Items)) + 60
	px := func(v float64) float64 { return v * scale }
	dc := gg.NewContext(int(px(rasterCanvasWidth)), int(px(height)))
	dc.SetHexColor("#ffffff")
	dc.Clear()

	load := func(points float64) error {
		if err := dc.LoadFontFace(f.FontPath, px(points)); err != nil {
			return fmt.Errorf("load font: %w", err)
		}
		return nil
	}

	drawText := func(s string, x, y, ax float64) {
		dc.DrawStringAnchored(s, px(x), px(y), ax, 0)
	}
	fillRect := func(x, y, w, h float64) {
		dc.DrawRectangle(px(x), px(y), px(w), px(h))
		dc.Fill()
	}
	hline := func(x1, x2, y, width float64) {
		dc.SetLineWidth(px(width))
		dc.DrawLine(px(x1), px(y), px(x2), px(y))
		dc.Stroke()
	}

	cx := rasterCanvasWidth / 2
	y := rasterPadding + 28
	if err := load(28); err != nil {
		return nil, err
	}
	dc.SetHexColor("#333333")
	drawText(doc.Title, cx, y, 0.5)

	y += 36
	if err := load(14); err != nil {
		return nil, err
	}
	dc.SetHexColor("#666666")
	drawText("Created: "+doc.CreatedLabel()+" | Total Items: "+strconv.Itoa(doc.ItemCount()), cx, y, 0.5)

	y = rasterPadding + titleBlock
	left, right := rasterPadding, rasterCanvasWidth-rasterPadding
	cols := []float64{left + 12, left + 60, left + 330, left + 450, left + 560}

	dc.SetHexColor("#f5f5f5")
	fillRect(left, y, right-left, rasterHeaderH)
	dc.SetHexColor("#dddddd")
	hline(left, right, y+rasterHeaderH, 2)

	if err := load(15); err != nil {
		return nil, err
	}
	dc.SetHexColor("#000000")
	for i, h := range []string{"#", "Item Name", "Quantity", "Unit", "Preparation"} {
		drawText(h, cols[i], y+28, 0)
	}
	y += rasterHeaderH

	for i, it := range doc.Items {
		if i%2 == 0 {
			dc.SetHexColor("#fafafa")
			fillRect(left, y, right-left, rasterRowHeight)
		}
		dc.SetHexColor("#eeeeee")
		hline(left, right, y+rasterRowHeight, 1)

		dc.SetHexColor("#000000")
		cells := []string{strconv.Itoa(doc.First + i + 1), it.Name, strconv.Itoa(it.Quantity), string(it.Unit), it.PreparationOrDash()}
		for c, s := range cells {
			drawText(s, cols[c], y+25, 0)
		}
		y += rasterRowHeight
	}

	if err := load(12); err != nil {
		return nil, err
	}
	dc.SetHexColor("#888888")
	drawText(Footer, cx, y+40, 0.5)

	return dc.Image(), nil
}

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// RasterScale is the pixel density the raster strategy asks for.
const RasterScale = 2.0

// RasterRowsPerPage bounds each rasterized image so a long list becomes
// several A4 pages instead of one tall bitmap.
const RasterRowsPerPage = 22

// Image placement on the page, in millimetres.
const (
	rasterMargin = 10.0
	rasterWidth  = 190.0
	a4Width      = 210.0
	a4Height     = 297.0
)

// Rasterizer draws a document to a bitmap. It is an optional capability:
// without one, exports of non-Latin lists go straight to the vector layout.
type Rasterizer interface {
	Rasterize(ctx context.Context, doc Document, scale float64) (image.Image, error)
}

// RasterPDF embeds a rasterized rendering of the document into a PDF, one
// image per page, scaled to the A4 width. Glyph coverage is whatever the
// rasterizer's font offers, which is the point of this strategy.
type RasterPDF struct {
	Rasterizer Rasterizer
}

func (r *RasterPDF) Name() string { return StrategyRasterPDF }

func (r *RasterPDF) Render(ctx context.Context, doc Document) (Artifact, error) {
	if r.Rasterizer == nil {
		return Artifact{}, errors.New("no rasterizer available")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreator(Footer, true)
	pdf.SetTitle(doc.Title, true)

	for n, page := range doc.Chunks(RasterRowsPerPage) {
		if err := r.addPage(ctx, pdf, page, fmt.Sprintf("page%d", n)); err != nil {
			return Artifact{}, err
		}
	}

	if pdf.Err() {
		return Artifact{}, fmt.Errorf("build pdf: %w", pdf.Error())
	}
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return Artifact{}, fmt.Errorf("write pdf: %w", err)
	}
	return Artifact{
		FileName:  FileName(doc.Title, "pdf"),
		MediaType: mediaPDF,
		Strategy:  StrategyRasterPDF,
		Data:      out.Bytes(),
	}, nil
}

// addPage rasterizes one chunk and places it on its own page.
func (r *RasterPDF) addPage(ctx context.Context, pdf *fpdf.Fpdf, page Document, name string) error {
	img, err := r.Rasterizer.Rasterize(ctx, page, RasterScale)
	if err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return errors.New("rasterizer returned an empty image")
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	imgHeight := float64(b.Dy()) * rasterWidth / float64(b.Dx())
	if pageHeight := imgHeight + 2*rasterMargin; pageHeight > a4Height {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: a4Width, Ht: pageHeight})
	} else {
		pdf.AddPage()
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &pngBuf)
	pdf.ImageOptions(name, rasterMargin, rasterMargin, rasterWidth, imgHeight, false, opts, 0, "")
	return nil
}

package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/model"
)

var exportNow = time.Date(2025, 10, 20, 18, 30, 0, 0, time.UTC)

func latinList() model.List {
	return model.List{
		ID:   1,
		Name: "Weekly Shop",
		Items: []model.Item{
			{ID: 11, Name: "Milk", Quantity: 2, Unit: model.UnitL},
			{ID: 12, Name: "Onion", Quantity: 1, Unit: model.UnitKg, Preparation: "chopped"},
		},
	}
}

func marathiList() model.List {
	l := latinList()
	l.Items = append(l.Items, model.Item{ID: 13, Name: "कोथिंबीर", Quantity: 1, Unit: model.UnitJudi})
	return l
}

// memSink keeps artifacts in memory and can refuse some of them.
type memSink struct {
	mu     sync.Mutex
	got    []Artifact
	reject func(Artifact) bool
}

func (s *memSink) Deliver(_ context.Context, a Artifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject != nil && s.reject(a) {
		return "", errors.New("download blocked")
	}
	s.got = append(s.got, a)
	return a.FileName, nil
}

type fakeRasterizer struct {
	err   error
	calls int
	docs  []Document
	gate  chan struct{}
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, doc Document, scale float64) (image.Image, error) {
	f.calls++
	f.docs = append(f.docs, doc)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(100*scale), int(50*scale)))
	img.Set(1, 1, color.Black)
	return img, nil
}

type countingPrompt struct {
	answer bool
	asked  []string
}

func (p *countingPrompt) Confirm(_ context.Context, msg string) bool {
	p.asked = append(p.asked, msg)
	return p.answer
}

func newTestPipeline(sink Sink, opts ...Option) *Pipeline {
	opts = append([]Option{WithClock(func() time.Time { return exportNow }), WithVector(&VectorPDF{})}, opts...)
	return NewPipeline(sink, opts...)
}

func TestFileNameSanitization(t *testing.T) {
	assert.Equal(t, "Mom_s_Diwali_List_", SanitizeName("Mom's Diwali List!"))
	assert.Equal(t, "Grocery_List_Mom_s_Diwali_List_.pdf", FileName("Mom's Diwali List!", "pdf"))
	assert.Equal(t, "a__b", SanitizeName("a  b"), "runs are not collapsed")
	assert.Equal(t, "___", SanitizeName("दूध"), "one underscore per character")
	assert.Equal(t, "Party_", SanitizeName("Party🎉"), "astral characters count once")
}

func TestHasNonLatinScriptChecksEveryField(t *testing.T) {
	base := NewDocument(latinList(), exportNow)
	assert.False(t, base.HasNonLatinScript())

	cases := map[string]func(*model.List){
		"name":        func(l *model.List) { l.Name = "दिवाळी" },
		"item name":   func(l *model.List) { l.Items[0].Name = "दूध" },
		"unit":        func(l *model.List) { l.Items[0].Unit = model.UnitNag },
		"preparation": func(l *model.List) { l.Items[1].Preparation = "चिरलेला" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			l := latinList()
			mutate(&l)
			assert.True(t, NewDocument(l, exportNow).HasNonLatinScript())
		})
	}
}

func TestNewDocumentSnapshots(t *testing.T) {
	l := latinList()
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	l.CreatedAt = &created
	doc := NewDocument(l, exportNow)
	l.Items[0].Name = "changed"
	assert.Equal(t, "Milk", doc.Items[0].Name)
	assert.Equal(t, "01 May 2024", doc.CreatedLabel())
	assert.Equal(t, exportNow, NewDocument(latinList(), exportNow).Created)
}

func TestLayoutRowsBreaksPages(t *testing.T) {
	rows := layoutRows(30, 65)
	assert.Equal(t, rowPos{Page: 0, Y: 65}, rows[0])
	for i, r := range rows {
		assert.LessOrEqual(t, r.Y, pageBottomY, "row %d", i)
		if i > 0 && r.Page != rows[i-1].Page {
			assert.Equal(t, pageTopY, r.Y, "new page resets the cursor")
		}
	}
	// 65..265 fits 21 rows on the first page
	assert.Equal(t, 0, rows[20].Page)
	assert.Equal(t, 1, rows[21].Page)
	assert.Equal(t, pageTopY, rows[21].Y)
}

func TestVectorLatinUsesTable(t *testing.T) {
	a, err := (&VectorPDF{}).Render(context.Background(), NewDocument(latinList(), exportNow))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF")))
	assert.Equal(t, "Grocery_List_Weekly_Shop.pdf", a.FileName)
	assert.Contains(t, string(a.Data), "(Preparation) Tj")
	assert.Contains(t, string(a.Data), "(chopped) Tj")
	assert.NotContains(t, string(a.Data), DisclaimerLine1)
}

func TestVectorNonLatinUsesSimpleLayoutWithDisclaimer(t *testing.T) {
	a, err := (&VectorPDF{}).Render(context.Background(), NewDocument(marathiList(), exportNow))
	require.NoError(t, err)
	assert.Contains(t, string(a.Data), "(GROCERY LIST) Tj")
	assert.Contains(t, string(a.Data), DisclaimerLine1)
	assert.Contains(t, string(a.Data), DisclaimerLine2)
}

func TestVectorLongListPaginates(t *testing.T) {
	l := latinList()
	for i := 0; i < 60; i++ {
		l.Items = append(l.Items, model.Item{ID: int64(100 + i), Name: "Item", Quantity: 1, Unit: model.UnitPcs})
	}
	a, err := (&VectorPDF{}).Render(context.Background(), NewDocument(l, exportNow))
	require.NoError(t, err)
	assert.Contains(t, string(a.Data), "/Count 3")
}

func TestHTMLEscapesUserText(t *testing.T) {
	l := latinList()
	l.Name = `<b>Party</b>`
	l.Items[0].Name = `<script>alert("x")</script>`
	l.Items[1].Preparation = `"quoted" & <i>`
	a, err := (&HTML{}).Render(context.Background(), NewDocument(l, exportNow))
	require.NoError(t, err)

	out := string(a.Data)
	assert.Equal(t, "Grocery_List__b_Party__b_.html", a.FileName)
	assert.NotContains(t, out, "<script>alert")
	assert.NotContains(t, out, "<b>Party</b>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&amp; &lt;i&gt;")
	assert.Contains(t, out, "window.print()")
	assert.Contains(t, out, "Total Items: 2")
	assert.Contains(t, out, Footer)
}

func TestPipelineLatinWritesVectorWithoutOffer(t *testing.T) {
	sink := &memSink{}
	prompt := &countingPrompt{answer: true}
	raster := &fakeRasterizer{}
	p := newTestPipeline(sink, WithPrompter(prompt), WithRasterizer(raster))

	rep, err := p.Export(context.Background(), latinList())
	require.NoError(t, err)
	assert.Equal(t, StrategyVectorPDF, rep.Strategy)
	assert.False(t, rep.HasNonLatinScript)
	assert.False(t, rep.Disclaimer)
	assert.False(t, rep.OfferedHTML)
	assert.Empty(t, prompt.asked)
	assert.Zero(t, raster.calls, "raster is only for non-Latin lists")
	require.Len(t, sink.got, 1)
	assert.Equal(t, mediaPDF, sink.got[0].MediaType)
}

func TestPipelineNonLatinWithoutRasterizer(t *testing.T) {
	sink := &memSink{}
	prompt := &countingPrompt{answer: false}
	p := newTestPipeline(sink, WithPrompter(prompt))
	require.False(t, p.CanRasterize())

	rep, err := p.Export(context.Background(), marathiList())
	require.NoError(t, err)
	assert.True(t, rep.HasNonLatinScript)
	assert.Equal(t, StrategyVectorPDF, rep.Strategy)
	assert.True(t, rep.Disclaimer)
	assert.True(t, rep.OfferedHTML)
	assert.False(t, rep.AcceptedHTML)
	assert.Equal(t, []string{HTMLOfferMessage}, prompt.asked)
	require.Len(t, sink.got, 1)
	assert.Contains(t, string(sink.got[0].Data), DisclaimerLine1)
}

func TestPipelineNonLatinAcceptsHTMLOffer(t *testing.T) {
	sink := &memSink{}
	p := newTestPipeline(sink, WithPrompter(&countingPrompt{answer: true}))

	rep, err := p.Export(context.Background(), marathiList())
	require.NoError(t, err)
	assert.True(t, rep.AcceptedHTML)
	assert.Equal(t, []string{"Grocery_List_Weekly_Shop.pdf", "Grocery_List_Weekly_Shop.html"}, rep.Paths)
	require.Len(t, sink.got, 2)
	assert.Contains(t, string(sink.got[1].Data), "कोथिंबीर")
}

func TestPipelineKeepsPDFWhenHTMLCopyFails(t *testing.T) {
	sink := &memSink{reject: func(a Artifact) bool { return a.MediaType == mediaHTML }}
	p := newTestPipeline(sink, WithPrompter(&countingPrompt{answer: true}))

	rep, err := p.Export(context.Background(), marathiList())
	require.NoError(t, err)
	assert.Equal(t, StrategyVectorPDF, rep.Strategy)
	assert.Equal(t, []string{"Grocery_List_Weekly_Shop.pdf"}, rep.Paths)
	assert.False(t, rep.AcceptedHTML)
	require.Len(t, rep.Failures, 1)
	var re *apperr.RenderError
	require.ErrorAs(t, rep.Failures[0], &re)
	assert.Equal(t, StrategyHTML, re.Strategy)
}

func TestPipelineNonLatinUsesRasterizer(t *testing.T) {
	sink := &memSink{}
	prompt := &countingPrompt{answer: true}
	raster := &fakeRasterizer{}
	p := newTestPipeline(sink, WithRasterizer(raster), WithPrompter(prompt))

	rep, err := p.Export(context.Background(), marathiList())
	require.NoError(t, err)
	assert.Equal(t, StrategyRasterPDF, rep.Strategy)
	assert.False(t, rep.Disclaimer)
	assert.Empty(t, prompt.asked)
	assert.Equal(t, 1, raster.calls)
	require.Len(t, sink.got, 1)
	assert.True(t, bytes.HasPrefix(sink.got[0].Data, []byte("%PDF")))
}

func TestPipelineRasterFailureFallsThrough(t *testing.T) {
	sink := &memSink{}
	p := newTestPipeline(sink, WithRasterizer(&fakeRasterizer{err: errors.New("canvas tainted")}))

	rep, err := p.Export(context.Background(), marathiList())
	require.NoError(t, err)
	assert.Equal(t, StrategyVectorPDF, rep.Strategy)
	require.Len(t, rep.Failures, 1)
	var re *apperr.RenderError
	require.ErrorAs(t, rep.Failures[0], &re)
	assert.Equal(t, StrategyRasterPDF, re.Strategy)
}

func TestPipelineFallsBackToHTML(t *testing.T) {
	sink := &memSink{reject: func(a Artifact) bool { return a.MediaType == mediaPDF }}
	p := newTestPipeline(sink)

	rep, err := p.Export(context.Background(), latinList())
	require.NoError(t, err)
	assert.Equal(t, StrategyHTML, rep.Strategy)
	assert.Equal(t, []string{"Grocery_List_Weekly_Shop.html"}, rep.Paths)
	assert.Len(t, rep.Failures, 1)
}

func TestPipelineTotalFailure(t *testing.T) {
	sink := &memSink{reject: func(Artifact) bool { return true }}
	p := newTestPipeline(sink)

	_, err := p.Export(context.Background(), latinList())
	require.Error(t, err)
	var re *apperr.RenderError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, StrategyHTML, re.Strategy)
}

func TestPipelineRejectsEmptyList(t *testing.T) {
	sink := &memSink{}
	_, err := newTestPipeline(sink).Export(context.Background(), model.List{Name: "x"})
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, sink.got)
}

func TestPipelineGuardsReentry(t *testing.T) {
	gate := make(chan struct{})
	raster := &fakeRasterizer{gate: gate}
	p := newTestPipeline(&memSink{}, WithRasterizer(raster))

	done := make(chan error, 1)
	go func() {
		_, err := p.Export(context.Background(), marathiList())
		done <- err
	}()

	require.Eventually(t, func() bool { return p.busy.Load() }, time.Second, time.Millisecond)
	_, err := p.Export(context.Background(), latinList())
	assert.ErrorIs(t, err, apperr.ErrExportInProgress)

	close(gate)
	require.NoError(t, <-done)

	_, err = p.Export(context.Background(), latinList())
	assert.NoError(t, err, "guard released after completion")
}

func TestDirSinkWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := DirSink{Dir: dir}.Deliver(context.Background(), Artifact{FileName: "a.html", Data: []byte("hi")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.html"), path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(b))
}

func longList(n int) model.List {
	l := model.List{ID: 1, Name: "Bulk"}
	for i := range n {
		l.Items = append(l.Items, model.Item{ID: int64(100 + i), Name: "कांदा", Quantity: 1, Unit: model.UnitKg})
	}
	return l
}

func TestDocumentChunks(t *testing.T) {
	doc := NewDocument(longList(50), exportNow)
	chunks := doc.Chunks(22)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Items, 22)
	assert.Len(t, chunks[2].Items, 6)
	assert.Equal(t, []int{0, 22, 44}, []int{chunks[0].First, chunks[1].First, chunks[2].First})
	for _, c := range chunks {
		assert.Equal(t, 50, c.ItemCount())
		assert.Equal(t, doc.Title, c.Title)
	}
	assert.Equal(t, int64(122), chunks[1].Items[0].ID)

	assert.Len(t, doc.Chunks(0), 1)
	assert.Len(t, NewDocument(latinList(), exportNow).Chunks(22), 1)
}

func TestRasterPDFOnePagePerChunk(t *testing.T) {
	raster := &fakeRasterizer{}
	a, err := (&RasterPDF{Rasterizer: raster}).Render(context.Background(), NewDocument(longList(50), exportNow))
	require.NoError(t, err)
	assert.Equal(t, 3, raster.calls)
	for _, d := range raster.docs {
		assert.LessOrEqual(t, len(d.Items), RasterRowsPerPage)
	}
	assert.Contains(t, string(a.Data), "/Count 3")
}

func TestFontRasterizer(t *testing.T) {
	assert.Nil(t, NewFontRasterizer(""))

	fontPath := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0o644))

	r := NewFontRasterizer(fontPath)
	require.NotNil(t, r)
	img, err := r.Rasterize(context.Background(), NewDocument(latinList(), exportNow), RasterScale)
	require.NoError(t, err)
	assert.Equal(t, int(rasterCanvasWidth*RasterScale), img.Bounds().Dx())

	a, err := (&RasterPDF{Rasterizer: r}).Render(context.Background(), NewDocument(latinList(), exportNow))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(a.Data), "%PDF"))
}

func TestFontRasterizerMissingFont(t *testing.T) {
	r := NewFontRasterizer(filepath.Join(t.TempDir(), "missing.ttf"))
	_, err := r.Rasterize(context.Background(), NewDocument(latinList(), exportNow), 1)
	assert.Error(t, err)
}

func TestExportWithOverridesPrompter(t *testing.T) {
	sink := &memSink{}
	p := newTestPipeline(sink, WithPrompter(&countingPrompt{answer: false}))
	per := &countingPrompt{answer: true}

	rep, err := p.ExportWith(context.Background(), marathiList(), per)
	require.NoError(t, err)
	assert.True(t, rep.AcceptedHTML)
	assert.Len(t, per.asked, 1)
}

func TestExportHTMLOnly(t *testing.T) {
	sink := &memSink{}
	rep, err := newTestPipeline(sink).ExportHTML(context.Background(), marathiList())
	require.NoError(t, err)
	assert.Equal(t, StrategyHTML, rep.Strategy)
	assert.True(t, rep.HasNonLatinScript)
	require.Len(t, sink.got, 1)
	assert.Equal(t, mediaHTML, sink.got[0].MediaType)
}

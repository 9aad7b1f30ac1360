// Package export renders a grocery list to PDF or HTML, falling back from
// one strategy to the next when rendering fails.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/model"
)

// Strategy names.
const (
	StrategyRasterPDF = "raster-pdf"
	StrategyVectorPDF = "vector-pdf"
	StrategyHTML      = "html"
)

// HTMLOfferMessage is asked after a vector PDF of non-Latin text was written.
const HTMLOfferMessage = "Devanagari text may not display perfectly in the PDF. Also write an HTML version?"

// Strategy renders a document into one artifact.
type Strategy interface {
	Name() string
	Render(ctx context.Context, doc Document) (Artifact, error)
}

// Sink delivers a finished artifact to the user and returns where it went.
type Sink interface {
	Deliver(ctx context.Context, a Artifact) (string, error)
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, message string) bool
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(ctx context.Context, message string) bool

func (f PromptFunc) Confirm(ctx context.Context, message string) bool { return f(ctx, message) }

// Decline is a Prompter that always answers no.
var Decline = PromptFunc(func(context.Context, string) bool { return false })

// Report describes what an export did.
type Report struct {
	HasNonLatinScript bool
	Strategy          string   // strategy whose artifact was delivered first
	Paths             []string // every delivered artifact, in order
	Disclaimer        bool     // simplified layout with the non-Latin warning was used
	OfferedHTML       bool
	AcceptedHTML      bool    // the HTML copy was accepted and delivered
	Failures          []error // *apperr.RenderError per failed attempt
}

// Pipeline tries its strategies in order until one succeeds. Only one
// export may run at a time.
type Pipeline struct {
	raster Strategy // nil when no rasterizer is available
	vector *VectorPDF
	html   *HTML
	sink   Sink
	prompt Prompter
	logger *slog.Logger
	now    func() time.Time
	busy   atomic.Bool
}

// Option tunes a Pipeline.
type Option func(*Pipeline)

// WithRasterizer enables the raster PDF strategy.
func WithRasterizer(r Rasterizer) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.raster = &RasterPDF{Rasterizer: r}
		}
	}
}

// WithRasterStrategy installs a custom raster strategy.
func WithRasterStrategy(s Strategy) Option { return func(p *Pipeline) { p.raster = s } }

// WithVector replaces the vector PDF strategy.
func WithVector(v *VectorPDF) Option { return func(p *Pipeline) { p.vector = v } }

// WithPrompter sets who answers the HTML offer.
func WithPrompter(pr Prompter) Option { return func(p *Pipeline) { p.prompt = pr } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// NewPipeline builds a pipeline delivering to sink.
func NewPipeline(sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		vector: &VectorPDF{Compress: true},
		html:   &HTML{},
		sink:   sink,
		prompt: Decline,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// CanRasterize reports whether the raster strategy is installed.
func (p *Pipeline) CanRasterize() bool { return p.raster != nil }

// plan picks the strategies by script content. HTML is not in the
// plan; it is the fallback after every planned strategy failed.
func (p *Pipeline) plan(nonLatin bool) []Strategy {
	var out []Strategy
	if nonLatin && p.raster != nil {
		out = append(out, p.raster)
	}
	return append(out, p.vector)
}

// Export renders l and delivers the result, asking the pipeline's
// prompter about the HTML offer.
func (p *Pipeline) Export(ctx context.Context, l model.List) (Report, error) {
	return p.ExportWith(ctx, l, p.prompt)
}

// ExportWith is Export with a per-call prompter.
func (p *Pipeline) ExportWith(ctx context.Context, l model.List, prompt Prompter) (Report, error) {
	if len(l.Items) == 0 {
		return Report{}, apperr.Invalid("items", "cannot export an empty list")
	}
	if !p.busy.CompareAndSwap(false, true) {
		return Report{}, apperr.ErrExportInProgress
	}
	defer p.busy.Store(false)
	if prompt == nil {
		prompt = Decline
	}

	doc := NewDocument(l, p.now())
	rep := Report{HasNonLatinScript: doc.HasNonLatinScript()}
	log := p.logger.With("list", l.ID, "non_latin", rep.HasNonLatinScript)

	for _, s := range p.plan(rep.HasNonLatinScript) {
		path, err := p.attempt(ctx, s, doc)
		if err != nil {
			rep.Failures = append(rep.Failures, err)
			log.Warn("export strategy failed, falling back", "strategy", s.Name(), "error", err)
			continue
		}
		rep.Strategy = s.Name()
		rep.Paths = append(rep.Paths, path)
		log.Info("export written", "strategy", s.Name(), "path", path)

		if s.Name() == StrategyVectorPDF && rep.HasNonLatinScript {
			rep.Disclaimer = true
			rep.OfferedHTML = true
			if prompt.Confirm(ctx, HTMLOfferMessage) {
				// The PDF is already delivered; a failed HTML copy is only reported.
				htmlPath, err := p.attempt(ctx, p.html, doc)
				if err != nil {
					rep.Failures = append(rep.Failures, err)
					log.Warn("html copy failed", "error", err)
					return rep, nil
				}
				rep.AcceptedHTML = true
				rep.Paths = append(rep.Paths, htmlPath)
			}
		}
		return rep, nil
	}

	path, err := p.attempt(ctx, p.html, doc)
	if err != nil {
		log.Error("html fallback failed", "error", err)
		return rep, fmt.Errorf("export failed: %w", err)
	}
	rep.Strategy = StrategyHTML
	rep.Paths = append(rep.Paths, path)
	return rep, nil
}

// ExportHTML writes only the HTML version of l.
func (p *Pipeline) ExportHTML(ctx context.Context, l model.List) (Report, error) {
	if len(l.Items) == 0 {
		return Report{}, apperr.Invalid("items", "cannot export an empty list")
	}
	if !p.busy.CompareAndSwap(false, true) {
		return Report{}, apperr.ErrExportInProgress
	}
	defer p.busy.Store(false)

	doc := NewDocument(l, p.now())
	rep := Report{HasNonLatinScript: doc.HasNonLatinScript()}
	path, err := p.attempt(ctx, p.html, doc)
	if err != nil {
		return rep, fmt.Errorf("export failed: %w", err)
	}
	rep.Strategy = StrategyHTML
	rep.Paths = []string{path}
	p.logger.Info("export written", "list", l.ID, "strategy", StrategyHTML, "path", path)
	return rep, nil
}

func (p *Pipeline) attempt(ctx context.Context, s Strategy, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &apperr.RenderError{Strategy: s.Name(), Err: err}
	}
	a, err := s.Render(ctx, doc)
	if err != nil {
		return "", &apperr.RenderError{Strategy: s.Name(), Err: err}
	}
	path, err := p.sink.Deliver(ctx, a)
	if err != nil {
		return "", &apperr.RenderError{Strategy: s.Name(), Err: err}
	}
	return path, nil
}

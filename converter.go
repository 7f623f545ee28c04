package docx2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/avelar/go-docx2pdf/internal/docx"
	"github.com/avelar/go-docx2pdf/internal/fileutil"
	"github.com/avelar/go-docx2pdf/internal/render"
	"github.com/avelar/go-docx2pdf/internal/stamp"
)

// Stage interfaces. Narrow on purpose so tests can swap any stage for a
// mock without touching the others.
type documentOpener interface {
	Open(path string) (*docx.Document, error)
}

type documentRewriter interface {
	Rewrite(doc *docx.Document, dstPath string, opts docx.RewriteOptions) error
}

type renderer interface {
	Render(ctx context.Context, job render.Job) (string, error)
	Close() error
}

type overlayer interface {
	PageCount(path string) (int, error)
	Overlay(inPath, outPath, base string) error
}

// Production stage implementations.

type docxOpener struct{}

func (docxOpener) Open(path string) (*docx.Document, error) { return docx.Open(path) }

type docxRewriter struct{}

func (docxRewriter) Rewrite(doc *docx.Document, dst string, opts docx.RewriteOptions) error {
	return docx.Rewrite(doc, dst, opts)
}

type pdfStamper struct{}

func (pdfStamper) PageCount(path string) (int, error) { return stamp.PageCount(path) }
func (pdfStamper) Overlay(in, out, base string) error { return stamp.Overlay(in, out, base) }

// Compile-time interface implementation checks.
var (
	_ documentOpener   = docxOpener{}
	_ documentRewriter = docxRewriter{}
	_ renderer         = (*render.Chain)(nil)
	_ overlayer        = pdfStamper{}
)

// Converter orchestrates the document-to-paginated-PDF pipeline.
// Create with New(), use ConvertFile() per job, and Close() when done.
// A Converter holds no per-job state; each job gets its own working
// directory, removed on every exit path.
type Converter struct {
	cfg       converterConfig
	opener    documentOpener
	rewriter  documentRewriter
	renderer  renderer
	overlayer overlayer
}

// New creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithHeaderMode).
func New(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			headerMode: HeaderModeStamp,
			fontFamily: DefaultFontFamily,
			fontSize:   DefaultFontSize,
		},
		opener:    docxOpener{},
		rewriter:  docxRewriter{},
		overlayer: pdfStamper{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.logger == nil {
		c.cfg.logger = slog.Default()
	}

	// Build the backend chain if not injected (e.g., by tests). The host
	// is probed once here, never per job.
	if c.renderer == nil {
		caps := c.cfg.caps
		if caps == nil {
			probed := render.Probe(c.cfg.hosted)
			caps = &probed
		}
		c.renderer = render.BuildChain(*caps, c.cfg.hosted, c.cfg.timeout, c.cfg.logger)
	}

	return c
}

// ConvertFile runs the full pipeline: parse, rewrite, render, overlay.
// The context bounds the render stage; extraction and rewriting are local
// and fast. All intermediate artifacts live in a per-job temp directory
// that is removed before return on success and failure alike.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) error {
	if inputPath == "" {
		return ErrEmptyInputPath
	}
	if outputPath == "" {
		return ErrEmptyOutputPath
	}
	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".docx" && ext != ".doc" {
		return fmt.Errorf("%w: got %q", ErrUnsupportedExtension, ext)
	}

	workdir, err := os.MkdirTemp("", "docx2pdf-job-*")
	if err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workdir)

	// Parse failures are never fatal: a legacy .doc or a corrupt package
	// still reaches the render chain, which may handle it natively.
	doc, err := c.opener.Open(inputPath)
	if err != nil {
		c.cfg.logger.Warn("document parse failed, continuing without structure",
			"input", inputPath, "error", err)
		doc = nil
	}

	base := ExtractBaseCode(doc, filepath.Base(inputPath))

	buckets := Partition(doc)
	if len(buckets) == 0 {
		// Placeholder bucket so the output never has zero pages.
		buckets = []Bucket{{}}
	}

	renderInput := inputPath
	if doc != nil {
		rewritten := filepath.Join(workdir, "rewritten"+ext)
		ropts := docx.RewriteOptions{
			FontFamily: c.cfg.fontFamily,
			FontSize:   c.cfg.fontSize,
			Headers:    c.headerTexts(base, len(doc.Sections)),
		}
		if err := c.rewriter.Rewrite(doc, rewritten, ropts); err != nil {
			// Fall back to the unmodified original; the overlay stage
			// re-asserts header text regardless.
			c.cfg.logger.Warn("section rewrite failed, using original document",
				"input", inputPath, "error", err)
		} else {
			renderInput = rewritten
		}
	}

	// When no rewritten file exists the renderer still works from inside
	// the job workdir, so backends that emit siblings next to their input
	// never write outside it.
	if renderInput == inputPath {
		working := filepath.Join(workdir, filepath.Base(inputPath))
		if err := fileutil.CopyFile(inputPath, working); err != nil {
			c.cfg.logger.Warn("working copy failed, rendering from the original path",
				"input", inputPath, "error", err)
		} else {
			renderInput = working
		}
	}

	job := render.Job{
		InputPath: renderInput,
		OutDir:    workdir,
		Pages:     toPages(buckets),
	}
	artifact, err := c.renderer.Render(ctx, job)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	// The renderer may paginate differently than the authored sections
	// implied. Overlay proceeds strictly by page index; the divergence is
	// logged so the numbering drift is diagnosable.
	if pages, err := c.overlayer.PageCount(artifact); err == nil && pages != len(buckets) {
		c.cfg.logger.Warn("rendered page count differs from partition",
			"pages", pages, "buckets", len(buckets), "base", base)
	}

	if err := c.overlayer.Overlay(artifact, outputPath, base); err != nil {
		return fmt.Errorf("%w: %v", ErrOverlayFailed, err)
	}
	return nil
}

// Close releases renderer resources (headless browser, if launched).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// headerTexts builds the per-section replacement header text. Suppression
// returns nil, which clears every header.
func (c *Converter) headerTexts(base string, sections int) []string {
	if c.cfg.headerMode == HeaderModeSuppress {
		return nil
	}
	texts := make([]string, sections)
	for i := range texts {
		texts[i] = fmt.Sprintf("%s_Part%d", base, i+1)
	}
	return texts
}

// toPages converts partition buckets into render pages.
func toPages(buckets []Bucket) []render.Page {
	pages := make([]render.Page, len(buckets))
	for i, b := range buckets {
		lines := make([]render.Line, 0, len(b))
		for _, p := range b {
			text := p.Text()
			if strings.TrimSpace(text) == "" {
				continue
			}
			lines = append(lines, render.Line{
				Text:    text,
				Heading: docx.IsHeading(p.StyleID),
			})
		}
		pages[i] = render.Page{Lines: lines}
	}
	return pages
}

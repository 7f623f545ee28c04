package render

import (
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Layout constants for the pure-Go fallback renderer (millimeters).
const (
	fallbackMargin     = 19.0 // ~0.75in
	fallbackLineHeight = 5.0
	fallbackBodyPt     = 10.0
	fallbackHeadingPt  = 14.0
)

// FallbackBackend lays out the prepared page content with gofpdf. It is the
// last resort in the chain: pure Go, no external processes or services, at
// the cost of visual fidelity to the source document.
type FallbackBackend struct{}

func (FallbackBackend) Name() string { return "fallback" }

// Render writes one PDF page per logical page, headings in bold.
func (FallbackBackend) Render(ctx context.Context, job Job) (string, error) {
	if len(job.Pages) == 0 {
		return "", ErrNoPageContent
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(fallbackMargin, fallbackMargin, fallbackMargin)
	pdf.SetAutoPageBreak(true, fallbackMargin)

	for _, page := range job.Pages {
		pdf.AddPage()
		for _, line := range page.Lines {
			if line.Heading {
				pdf.SetFont("Times", "B", fallbackHeadingPt)
			} else {
				pdf.SetFont("Times", "", fallbackBodyPt)
			}
			pdf.MultiCell(0, fallbackLineHeight, line.Text, "", "L", false)
			pdf.Ln(fallbackLineHeight / 2)
		}
	}

	artifact := job.ExpectedArtifact()
	if err := pdf.OutputFileAndClose(artifact); err != nil {
		return "", fmt.Errorf("gofpdf output: %w", err)
	}
	return artifact, nil
}

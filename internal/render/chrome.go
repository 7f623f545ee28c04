package render

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.75
)

// ChromeBackend renders the prepared page content through headless Chrome.
// It does not convert the source document itself — it lays out Job.Pages as
// a minimal HTML rendition with one print page per logical page.
type ChromeBackend struct {
	browser *rod.Browser
	timeout time.Duration
}

// NewChromeBackend creates a ChromeBackend. The browser is launched lazily
// on first render.
func NewChromeBackend(timeout time.Duration) *ChromeBackend {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ChromeBackend{timeout: timeout}
}

func (b *ChromeBackend) Name() string { return "chrome" }

// ensureBrowser lazily connects to the browser.
func (b *ChromeBackend) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	b.browser = rod.New().ControlURL(u)
	if err := b.browser.Connect(); err != nil {
		b.browser = nil
		return fmt.Errorf("connect browser: %w", err)
	}
	return nil
}

// Close releases browser resources.
func (b *ChromeBackend) Close() error {
	if b.browser != nil {
		err := b.browser.Close()
		b.browser = nil
		return err
	}
	return nil
}

// Render writes the page HTML next to the artifact, prints it to PDF and
// stores the bytes at the expected artifact path.
func (b *ChromeBackend) Render(ctx context.Context, job Job) (string, error) {
	if len(job.Pages) == 0 {
		return "", ErrNoPageContent
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := b.ensureBrowser(); err != nil {
		return "", err
	}

	htmlPath := filepath.Join(job.OutDir, "render.html")
	if err := os.WriteFile(htmlPath, []byte(pagesHTML(job.Pages)), 0600); err != nil {
		return "", fmt.Errorf("write render html: %w", err)
	}
	defer os.Remove(htmlPath)

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "file://" + htmlPath})
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return "", fmt.Errorf("load page: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return "", fmt.Errorf("print to pdf: %w", err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read pdf stream: %w", err)
	}

	artifact := job.ExpectedArtifact()
	if err := os.WriteFile(artifact, pdfBuf, 0600); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return artifact, nil
}

// pagesHTML renders the logical pages as serif body text with a forced page
// break between pages.
func pagesHTML(pages []Page) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>
body { font-family: "Times New Roman", serif; font-size: 10pt; }
h1 { font-size: 14pt; }
.pg { page-break-after: always; }
.pg:last-child { page-break-after: auto; }
</style></head><body>`)
	for _, p := range pages {
		sb.WriteString(`<div class="pg">`)
		for _, line := range p.Lines {
			if line.Heading {
				sb.WriteString("<h1>" + html.EscapeString(line.Text) + "</h1>")
			} else {
				sb.WriteString("<p>" + html.EscapeString(line.Text) + "</p>")
			}
		}
		sb.WriteString("</div>")
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

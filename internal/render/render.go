// Package render turns a word-processing document into a paginated PDF.
//
// Four interchangeable backends implement one Backend interface: a hosted
// HTTP conversion service, a local headless office process, headless Chrome,
// and a pure-Go layout fallback. A Chain tries them in priority order and
// falls through on any failure, so a render error never escapes unless every
// configured backend has failed.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sentinel errors for render operations.
var (
	ErrNoBackends         = errors.New("no render backend available")
	ErrAllBackendsFailed  = errors.New("all render backends failed")
	ErrMissingArtifact    = errors.New("backend produced no output artifact")
	ErrExecutableNotFound = errors.New("office executable not found")
	ErrNoPageContent      = errors.New("no page content to render")
)

// DefaultTimeout bounds a single backend invocation.
const DefaultTimeout = 2 * time.Minute

// Line is one paragraph of prepared page content.
type Line struct {
	Text    string
	Heading bool
}

// Page is one logical output page for content-level backends.
type Page struct {
	Lines []Line
}

// Job carries everything a backend needs for one conversion.
type Job struct {
	// InputPath is the (possibly rewritten) source document.
	InputPath string
	// OutDir receives the artifact, named after the input stem with a
	// .pdf extension.
	OutDir string
	// Pages is the pre-partitioned content for backends that lay out the
	// document themselves instead of converting InputPath.
	Pages []Page
}

// ExpectedArtifact is the deterministic output location for a job.
func (j Job) ExpectedArtifact() string {
	stem := strings.TrimSuffix(filepath.Base(j.InputPath), filepath.Ext(j.InputPath))
	return filepath.Join(j.OutDir, stem+".pdf")
}

// Backend converts a document to a paginated PDF artifact.
type Backend interface {
	// Name identifies the backend in logs and diagnostics.
	Name() string
	// Render produces the artifact and returns its path. Implementations
	// must respect ctx cancellation and never hang past their timeout.
	Render(ctx context.Context, job Job) (string, error)
}

// Chain tries backends in priority order, falling through on failure.
type Chain struct {
	backends []Backend
	logger   *slog.Logger
}

// NewChain builds a chain over the given backends. Order is priority order.
func NewChain(logger *slog.Logger, backends ...Backend) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{backends: backends, logger: logger}
}

// Backends returns the configured backend names in priority order.
func (c *Chain) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// Render runs the chain. Success is strictly "an artifact file exists and is
// non-empty" — an exit status alone never counts.
func (c *Chain) Render(ctx context.Context, job Job) (string, error) {
	if len(c.backends) == 0 {
		return "", ErrNoBackends
	}

	var errs []error
	for _, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		path, err := b.Render(ctx, job)
		if err == nil {
			if path, err = verifyArtifact(path, job); err == nil {
				return path, nil
			}
		}

		c.logger.Warn("render backend failed", "backend", b.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}

	return "", fmt.Errorf("%w: %v", ErrAllBackendsFailed, errors.Join(errs...))
}

// Close releases resources held by closable backends (headless Chrome).
func (c *Chain) Close() error {
	var errs []error
	for _, b := range c.backends {
		if closer, ok := b.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// verifyArtifact enforces the strict success definition. When the reported
// path is missing it falls back to scanning the output directory for any
// PDF, mirroring converters that pick their own output names.
func verifyArtifact(path string, job Job) (string, error) {
	if ok, _ := nonEmptyFile(path); ok {
		return path, nil
	}
	if found := scanForArtifact(job.OutDir); found != "" {
		return found, nil
	}
	return "", fmt.Errorf("%w: %s", ErrMissingArtifact, path)
}

func nonEmptyFile(path string) (bool, int64) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, 0
	}
	return info.Size() > 0, info.Size()
}

// scanForArtifact returns the first non-empty PDF in dir, or "".
func scanForArtifact(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if ok, _ := nonEmptyFile(p); ok {
			return p
		}
	}
	return ""
}

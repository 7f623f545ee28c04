package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFallbackRender(t *testing.T) {
	dir := t.TempDir()
	job := Job{
		InputPath: filepath.Join(dir, "doc.docx"),
		OutDir:    dir,
		Pages: []Page{
			{Lines: []Line{{Text: "Introduction", Heading: true}, {Text: "Body paragraph one."}}},
			{Lines: []Line{{Text: "Second Part", Heading: true}, {Text: "More text."}}},
			{Lines: nil}, // placeholder page renders blank, not missing
		},
	}

	path, err := FallbackBackend{}.Render(context.Background(), job)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("artifact is empty")
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("artifact does not start with a PDF header: %q", data[:8])
	}
}

func TestFallbackRenderNoPages(t *testing.T) {
	job := Job{InputPath: "doc.docx", OutDir: t.TempDir()}
	_, err := FallbackBackend{}.Render(context.Background(), job)
	if !errors.Is(err, ErrNoPageContent) {
		t.Errorf("Render() error = %v, want ErrNoPageContent", err)
	}
}

func TestFallbackRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := Job{InputPath: "doc.docx", OutDir: t.TempDir(), Pages: []Page{{}}}
	_, err := FallbackBackend{}.Render(ctx, job)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

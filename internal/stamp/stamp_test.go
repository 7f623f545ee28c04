package stamp

// Notes:
// - Fixture PDFs are generated with gofpdf so no binary testdata is needed
// - Idempotence is exercised by stamping an already-stamped artifact

import (
	"bytes"
	"compress/zlib"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// makePDF writes an n-page fixture and returns its path.
func makePDF(t *testing.T, dir string, pages int) string {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "Letter", "")
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.SetFont("Times", "", 12)
		pdf.Cell(0, 10, "original header text")
	}
	path := filepath.Join(dir, "fixture.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture pdf: %v", err)
	}
	return path
}

func TestPageCount(t *testing.T) {
	dir := t.TempDir()
	path := makePDF(t, dir, 3)

	n, err := PageCount(path)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("PageCount() = %d, want 3", n)
	}
}

func TestPageCountMissingFile(t *testing.T) {
	_, err := PageCount(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("PageCount() error = nil, want failure")
	}
}

func TestOverlay(t *testing.T) {
	dir := t.TempDir()
	in := makePDF(t, dir, 3)
	out := filepath.Join(dir, "stamped.pdf")

	if err := Overlay(in, out, "062725-0620-b04-25"); err != nil {
		t.Fatalf("Overlay() error = %v", err)
	}

	// Page count survives stamping.
	n, err := PageCount(out)
	if err != nil {
		t.Fatalf("PageCount(stamped) error = %v", err)
	}
	if n != 3 {
		t.Errorf("stamped page count = %d, want 3", n)
	}

	// Input untouched.
	if _, err := os.Stat(in); err != nil {
		t.Errorf("input missing after overlay: %v", err)
	}

	// No stamping temp file left behind.
	if _, err := os.Stat(out + ".stamping"); !os.IsNotExist(err) {
		t.Error("temp stamping file survived")
	}
}

func TestOverlayStampsPerPageText(t *testing.T) {
	dir := t.TempDir()
	in := makePDF(t, dir, 3)
	out := filepath.Join(dir, "stamped.pdf")

	if err := Overlay(in, out, "062725-0620-b04-25"); err != nil {
		t.Fatalf("Overlay() error = %v", err)
	}

	content := decodedContent(t, out)
	for _, want := range []string{
		"062725-0620-b04-25_Part1",
		"062725-0620-b04-25_Part2",
		"062725-0620-b04-25_Part3",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("stamped output missing %q", want)
		}
	}
}

// decodedContent returns the raw bytes of a PDF plus every Flate stream
// decompressed, so stamped text is searchable as plain text.
func decodedContent(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test fixture path
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	var sb strings.Builder
	sb.Write(data)
	rest := data
	for {
		i := bytes.Index(rest, []byte("stream"))
		if i < 0 {
			break
		}
		rest = rest[i+len("stream"):]
		rest = bytes.TrimPrefix(rest, []byte("\r\n"))
		rest = bytes.TrimPrefix(rest, []byte("\n"))
		end := bytes.Index(rest, []byte("endstream"))
		if end < 0 {
			break
		}
		if zr, err := zlib.NewReader(bytes.NewReader(rest[:end])); err == nil {
			if decoded, err := io.ReadAll(zr); err == nil {
				sb.Write(decoded)
			}
			zr.Close()
		}
		rest = rest[end+len("endstream"):]
	}
	return sb.String()
}

func TestOverlayIdempotent(t *testing.T) {
	dir := t.TempDir()
	in := makePDF(t, dir, 2)
	once := filepath.Join(dir, "once.pdf")
	twice := filepath.Join(dir, "twice.pdf")

	if err := Overlay(in, once, "AB-01-02"); err != nil {
		t.Fatalf("first Overlay() error = %v", err)
	}
	if err := Overlay(once, twice, "AB-01-02"); err != nil {
		t.Fatalf("second Overlay() error = %v", err)
	}

	n, err := PageCount(twice)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("re-stamped page count = %d, want 2", n)
	}
}

func TestOverlayMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.pdf")

	err := Overlay(filepath.Join(dir, "missing.pdf"), out, "X")
	if err == nil {
		t.Fatal("Overlay() error = nil, want failure")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output exists after failed overlay")
	}
}

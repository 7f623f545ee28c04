// Package stamp composites corrected header text onto every page of a
// rendered PDF.
//
// The stamp is a per-page text watermark drawn on top of the content layer
// at a fixed position in the header band, with an opaque background fill
// sized to cover the pre-existing header text. Re-stamping an already
// stamped artifact yields the same band: the fill masks the previous text
// before the redraw, which makes the operation idempotent.
package stamp

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrNoPages is returned for an artifact with a zero page count.
var ErrNoPages = errors.New("artifact has no pages")

// headerStampDesc fixes the stamp geometry: small Helvetica at the top
// center of the page, black on an opaque white band with generous margins so
// the band fully covers the original header text.
const headerStampDesc = "fontname:Helvetica, points:9, scale:1 abs, pos:tc, off:0 -9, fillcol:#000000, bgcol:#ffffff, margins:5, rot:0, op:1"

// PageCount returns the number of pages in a PDF artifact.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return n, nil
}

// Overlay writes a stamped copy of inPath to outPath. Page i (0-based)
// receives the text "{base}_Part{i+1}". The input is left untouched; on any
// failure no partial output survives.
func Overlay(inPath, outPath, base string) error {
	pages, err := PageCount(inPath)
	if err != nil {
		return err
	}
	if pages == 0 {
		return ErrNoPages
	}

	marks := make(map[int]*model.Watermark, pages)
	for i := 1; i <= pages; i++ {
		text := fmt.Sprintf("%s_Part%d", base, i)
		wm, err := api.TextWatermark(text, headerStampDesc, true, false, types.POINTS)
		if err != nil {
			return fmt.Errorf("build stamp for page %d: %w", i, err)
		}
		marks[i] = wm
	}

	// Stamp into a sibling temp file and rename, so outPath only ever
	// holds a complete artifact.
	tmp := outPath + ".stamping"
	conf := model.NewDefaultConfiguration()
	if err := api.AddWatermarksMapFile(inPath, tmp, marks, conf); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("stamp artifact: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}

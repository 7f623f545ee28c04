package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// RewriteOptions controls the in-place structural rewrite.
type RewriteOptions struct {
	// FontFamily and FontSize (points) are forced onto every run in the
	// document body, table cells included. Zero values leave fonts alone.
	FontFamily string
	FontSize   int

	// Headers holds the replacement header text for each section in
	// document order. An empty string clears the section header entirely.
	// Sections beyond len(Headers) are cleared.
	Headers []string
}

// WordprocessingML namespaces and part metadata.
const (
	wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relNS  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	contentTypesPart  = "[Content_Types].xml"
	headerRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	headerContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
)

// headerPartRe matches header part names inside the package.
var headerPartRe = regexp.MustCompile(`^word/header([0-9]+)\.xml$`)

// relIDRe extracts relationship ids from a rels part.
var relIDRe = regexp.MustCompile(`Id="([^"]+)"`)

// sectPrOpenRe matches a sectPr open tag, self-closing included.
var sectPrOpenRe = regexp.MustCompile(`<w:sectPr(?: [^>]*)?/?>`)

// Font-bearing run property elements. These are always serialized as empty
// elements by Word, so a self-closing match is sufficient.
var (
	rFontsRe = regexp.MustCompile(`<w:rFonts\b[^>]*/>`)
	szRe     = regexp.MustCompile(`<w:sz\b[^>]*/>`)
	szCsRe   = regexp.MustCompile(`<w:szCs\b[^>]*/>`)

	// Matches a run open tag optionally followed by its property block.
	// The alternation keeps runs that already own a w:rPr untouched so a
	// second property block is never introduced.
	runOpenRe = regexp.MustCompile(`<w:r(?: [^>]*)?><w:rPr>|<w:r(?: [^>]*)?>`)

	rPrOpenRe = regexp.MustCompile(`<w:rPr>`)
)

// syntheticHeader describes a header part created for a section that has no
// pre-existing header part to rewrite.
type syntheticHeader struct {
	sectIndex int
	partName  string // archive entry name, e.g. "word/header2.xml"
	relID     string
	text      string
}

// Rewrite writes a rewritten copy of doc to dstPath. Section headers are
// replaced per opts.Headers and run fonts are forced document-wide. Sections
// that carry header text but own no header part get one synthesized: a new
// header entry, its relationship, a content-type override and a
// headerReference in the section's sectPr. Every archive entry the rewrite
// does not touch is copied through raw, so the rest of the package
// round-trips losslessly.
//
// On any error the destination file is removed; the source is never
// modified.
func Rewrite(doc *Document, dstPath string, opts RewriteOptions) (err error) {
	zr, err := zip.OpenReader(doc.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotZip, err)
	}
	defer zr.Close()

	out, err := os.Create(dstPath) // #nosec G304 -- destination inside the job workdir
	if err != nil {
		return fmt.Errorf("create rewrite target: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dstPath)
		}
	}()

	headerText := headerTextByPart(doc, opts.Headers)
	synth := planSyntheticHeaders(doc, opts.Headers, &zr.Reader)

	var sawRels bool
	zw := zip.NewWriter(out)
	for _, f := range zr.File {
		switch {
		case f.Name == documentPart:
			if err := transformDocument(zw, f, opts, synth); err != nil {
				return err
			}
		case f.Name == documentRels && len(synth) > 0:
			sawRels = true
			if err := transformRels(zw, f, synth); err != nil {
				return err
			}
		case f.Name == contentTypesPart && len(synth) > 0:
			if err := transformContentTypes(zw, f, synth); err != nil {
				return err
			}
		case headerPartRe.MatchString(f.Name):
			// Every header part is replaced: referenced ones get their
			// section text, stale ones (first/even page headers) are
			// cleared so no original header survives.
			if err := writeEntry(zw, f.Name, headerXML(headerText[f.Name], opts)); err != nil {
				return err
			}
		default:
			if err := copyRaw(zw, f); err != nil {
				return err
			}
		}
	}

	for _, s := range synth {
		if err := writeEntry(zw, s.partName, headerXML(s.text, opts)); err != nil {
			return err
		}
	}
	if len(synth) > 0 && !sawRels {
		if err := writeEntry(zw, documentRels, freshRelsXML(synth)); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

// headerTextByPart maps existing header part names to their replacement text.
func headerTextByPart(doc *Document, headers []string) map[string]string {
	m := make(map[string]string)
	for i, sec := range doc.Sections {
		if sec.HeaderPart == "" {
			continue
		}
		if i < len(headers) {
			m[sec.HeaderPart] = headers[i]
		} else {
			m[sec.HeaderPart] = ""
		}
	}
	return m
}

// planSyntheticHeaders assigns part names and relationship ids for sections
// that need header text but own no header part. Names and ids are chosen to
// avoid every existing entry and relationship in the package.
func planSyntheticHeaders(doc *Document, headers []string, zr *zip.Reader) []syntheticHeader {
	nextPart := 1
	for _, f := range zr.File {
		if m := headerPartRe.FindStringSubmatch(f.Name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= nextPart {
				nextPart = n + 1
			}
		}
	}
	used := usedRelIDs(zr)

	var plans []syntheticHeader
	nextID := 1
	for i, sec := range doc.Sections {
		if sec.HeaderPart != "" || i >= len(headers) || headers[i] == "" {
			continue
		}
		for used["rId"+strconv.Itoa(nextID)] {
			nextID++
		}
		relID := "rId" + strconv.Itoa(nextID)
		used[relID] = true

		plans = append(plans, syntheticHeader{
			sectIndex: i,
			partName:  fmt.Sprintf("word/header%d.xml", nextPart),
			relID:     relID,
			text:      headers[i],
		})
		nextPart++
	}
	return plans
}

// usedRelIDs collects the relationship ids already present in the document
// rels part.
func usedRelIDs(zr *zip.Reader) map[string]bool {
	ids := make(map[string]bool)
	f := findEntry(zr, documentRels)
	if f == nil {
		return ids
	}
	rc, err := f.Open()
	if err != nil {
		return ids
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return ids
	}
	for _, m := range relIDRe.FindAllSubmatch(data, -1) {
		ids[string(m[1])] = true
	}
	return ids
}

func transformDocument(zw *zip.Writer, f *zip.File, opts RewriteOptions, synth []syntheticHeader) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}

	if opts.FontFamily != "" && opts.FontSize > 0 {
		data = ForceRunFonts(data, opts.FontFamily, opts.FontSize)
	}
	data = injectHeaderRefs(data, synth)
	return writeEntry(zw, f.Name, data)
}

// injectHeaderRefs adds a default headerReference for every synthesized
// header part into its section's sectPr, in document order. A document with
// no sectPr at all gets one appended at the end of the body.
func injectHeaderRefs(data []byte, synth []syntheticHeader) []byte {
	if len(synth) == 0 {
		return data
	}

	refs := make(map[int]string, len(synth))
	for _, s := range synth {
		refs[s.sectIndex] = fmt.Sprintf(`<w:headerReference w:type="default" r:id="%s"/>`, s.relID)
	}

	// The r:id attribute needs the relationships namespace on the root.
	if !bytes.Contains(data, []byte("xmlns:r=")) {
		if i := bytes.Index(data, []byte("<w:document")); i >= 0 {
			insert := i + len("<w:document")
			decl := ` xmlns:r="` + relNS + `"`
			data = append(data[:insert:insert], append([]byte(decl), data[insert:]...)...)
		}
	}

	count := 0
	data = sectPrOpenRe.ReplaceAllFunc(data, func(m []byte) []byte {
		ref, ok := refs[count]
		count++
		if !ok {
			return m
		}
		// Build a fresh slice: appending to m would scribble over the
		// source buffer it aliases.
		var b bytes.Buffer
		if bytes.HasSuffix(m, []byte("/>")) {
			b.Write(m[:len(m)-2])
			b.WriteByte('>')
			b.WriteString(ref)
			b.WriteString("</w:sectPr>")
		} else {
			b.Write(m)
			b.WriteString(ref)
		}
		return b.Bytes()
	})

	// Implicit single section: no sectPr anywhere in the body.
	if count == 0 {
		if ref, ok := refs[0]; ok {
			data = bytes.Replace(data,
				[]byte("</w:body>"),
				[]byte("<w:sectPr>"+ref+"</w:sectPr></w:body>"), 1)
		}
	}
	return data
}

// transformRels appends the synthesized header relationships.
func transformRels(zw *zip.Writer, f *zip.File, synth []syntheticHeader) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}

	data = bytes.Replace(data,
		[]byte("</Relationships>"),
		[]byte(relationshipsXML(synth)+"</Relationships>"), 1)
	return writeEntry(zw, f.Name, data)
}

// transformContentTypes appends an override for each synthesized header part.
func transformContentTypes(zw *zip.Writer, f *zip.File, synth []syntheticHeader) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}

	var sb strings.Builder
	for _, s := range synth {
		fmt.Fprintf(&sb, `<Override PartName="/%s" ContentType="%s"/>`, s.partName, headerContentType)
	}
	data = bytes.Replace(data, []byte("</Types>"), []byte(sb.String()+"</Types>"), 1)
	return writeEntry(zw, f.Name, data)
}

func relationshipsXML(synth []syntheticHeader) string {
	var sb strings.Builder
	for _, s := range synth {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"/>`,
			s.relID, headerRelType, path.Base(s.partName))
	}
	return sb.String()
}

// freshRelsXML builds a complete rels part for packages that carry none.
func freshRelsXML(synth []syntheticHeader) []byte {
	return []byte(xml.Header +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		relationshipsXML(synth) + `</Relationships>`)
}

// ForceRunFonts rewrites the raw XML of a document part so that every run
// carries the given font family and size (points), including runs nested in
// table cells and runs with pre-existing explicit formatting. All other run
// properties (bold, italic, color, ...) are preserved.
func ForceRunFonts(data []byte, family string, sizePt int) []byte {
	props := runPropsXML(family, sizePt)

	// Drop every explicit font/size so the forced pair wins everywhere.
	data = rFontsRe.ReplaceAll(data, nil)
	data = szRe.ReplaceAll(data, nil)
	data = szCsRe.ReplaceAll(data, nil)

	// Existing property blocks get the forced pair prepended.
	data = rPrOpenRe.ReplaceAll(data, []byte("<w:rPr>"+props))

	// Runs without a property block get a fresh one.
	data = runOpenRe.ReplaceAllFunc(data, func(m []byte) []byte {
		if bytes.HasSuffix(m, []byte("<w:rPr>")) {
			return m
		}
		var b bytes.Buffer
		b.Write(m)
		b.WriteString("<w:rPr>")
		b.WriteString(props)
		b.WriteString("</w:rPr>")
		return b.Bytes()
	})

	return data
}

// runPropsXML renders the forced font elements. Size is stored in
// half-points per the WordprocessingML spec.
func runPropsXML(family string, sizePt int) string {
	fam := escapeXML(family)
	half := sizePt * 2
	return fmt.Sprintf(`<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/><w:sz w:val="%d"/><w:szCs w:val="%d"/>`,
		fam, fam, fam, half, half)
}

// headerXML renders a complete replacement header part. Empty text yields a
// header with no paragraphs at all, so no stale formatting anchors remain.
func headerXML(text string, opts RewriteOptions) []byte {
	var body string
	if text != "" {
		var props string
		if opts.FontFamily != "" && opts.FontSize > 0 {
			props = "<w:rPr>" + runPropsXML(opts.FontFamily, opts.FontSize) + "</w:rPr>"
		}
		body = "<w:p><w:r>" + props + "<w:t>" + escapeXML(text) + "</w:t></w:r></w:p>"
	}
	return []byte(xml.Header + `<w:hdr xmlns:w="` + wordNS + `">` + body + `</w:hdr>`)
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}

// copyRaw copies a zip entry without recompression.
func copyRaw(zw *zip.Writer, f *zip.File) error {
	rc, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("open raw %s: %w", f.Name, err)
	}
	header := f.FileHeader
	w, err := zw.CreateRaw(&header)
	if err != nil {
		return fmt.Errorf("create raw %s: %w", f.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copy %s: %w", f.Name, err)
	}
	return nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

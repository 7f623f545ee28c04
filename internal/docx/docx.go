// Package docx reads and rewrites the structure of Office Open XML
// word-processing documents.
//
// Parsing streams word/document.xml out of the ZIP package and builds an
// owned tree of sections, paragraphs and runs. Rewriting works on the raw
// XML of the parts it touches and copies every other archive entry through
// unchanged, so formatting outside the rewritten elements survives
// byte-for-byte.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// Sentinel errors for document parsing.
var (
	ErrNotZip         = errors.New("not a zip archive")
	ErrNoDocumentPart = errors.New("word/document.xml not found in archive")
)

const documentPart = "word/document.xml"
const documentRels = "word/_rels/document.xml.rels"

// Run is the smallest styled-text unit: a contiguous span of text sharing
// one font family and size.
type Run struct {
	Text string
	Font string
	// Size is the font size in half-points, as stored in w:sz. Zero means
	// the run inherits its size.
	Size int
}

// Paragraph owns an ordered sequence of runs plus the paragraph style id.
type Paragraph struct {
	StyleID string
	Runs    []Run
}

// Text concatenates the paragraph's run text.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Section is a structural grouping that owns its own running header.
// A document with no explicit section break still has exactly one Section;
// an empty header is a Section with a zero-length Header slice, never a
// missing Section.
type Section struct {
	// HeaderPart is the archive name of the header part for this section
	// (e.g. "word/header1.xml"). Empty when the section has no header part.
	HeaderPart string
	Header     []Paragraph
}

// Document is the parsed structure of one .docx file.
type Document struct {
	Path       string
	Sections   []Section
	Paragraphs []Paragraph
}

// Open parses the document at path.
func Open(p string) (*Document, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotZip, err)
	}
	defer zr.Close()

	doc, err := parseArchive(&zr.Reader)
	if err != nil {
		return nil, err
	}
	doc.Path = p
	return doc, nil
}

// Parse parses a document from an in-memory archive.
func Parse(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotZip, err)
	}
	return parseArchive(zr)
}

func parseArchive(zr *zip.Reader) (*Document, error) {
	rels, err := readRelationships(zr)
	if err != nil {
		// A package without relationships still carries a document part;
		// headers simply cannot be resolved.
		rels = nil
	}

	docFile := findEntry(zr, documentPart)
	if docFile == nil {
		return nil, ErrNoDocumentPart
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()

	paragraphs, headerRefs, err := parseDocumentXML(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}

	doc := &Document{Paragraphs: paragraphs}

	// One Section per sectPr; a document with none gets a single implicit
	// section so callers never see a sectionless document.
	if len(headerRefs) == 0 {
		headerRefs = []string{""}
	}
	for _, rID := range headerRefs {
		sec := Section{}
		if target, ok := rels[rID]; ok && rID != "" {
			sec.HeaderPart = resolvePartName(target)
			if hf := findEntry(zr, sec.HeaderPart); hf != nil {
				if hdr, err := parseHeaderPart(hf); err == nil {
					sec.Header = hdr
				}
			}
		}
		doc.Sections = append(doc.Sections, sec)
	}

	return doc, nil
}

func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// readRelationships maps relationship ids to part targets from
// word/_rels/document.xml.rels.
func readRelationships(zr *zip.Reader) (map[string]string, error) {
	f := findEntry(zr, documentRels)
	if f == nil {
		return nil, fmt.Errorf("%s not found", documentRels)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var rels struct {
		Relationship []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.NewDecoder(rc).Decode(&rels); err != nil {
		return nil, fmt.Errorf("decode %s: %w", documentRels, err)
	}

	m := make(map[string]string, len(rels.Relationship))
	for _, r := range rels.Relationship {
		m[r.ID] = r.Target
	}
	return m, nil
}

// resolvePartName turns a relationship target like "header1.xml" into the
// archive entry name "word/header1.xml".
func resolvePartName(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("word", target)
}

// parseDocumentXML walks the token stream of word/document.xml collecting
// body paragraphs (tables included) and the default header reference of
// every sectPr, in document order.
func parseDocumentXML(r io.Reader) ([]Paragraph, []string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []Paragraph
		headerRefs []string

		inSectPr   bool
		sectHeader string // chosen header rId of the open sectPr
		sectFirst  string // first header rId seen, any type

		para    *Paragraph
		run     *Run
		inText  bool
		pDepth  int
		sawBody bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "body":
				sawBody = true
			case "p":
				if pDepth == 0 {
					para = &Paragraph{}
				}
				pDepth++
			case "pStyle":
				if para != nil && pDepth == 1 {
					para.StyleID = attr(t, "val")
				}
			case "r":
				if para != nil {
					run = &Run{}
				}
			case "rFonts":
				if run != nil {
					run.Font = attr(t, "ascii")
				}
			case "sz":
				if run != nil {
					if n, err := strconv.Atoi(attr(t, "val")); err == nil {
						run.Size = n
					}
				}
			case "t":
				if run != nil {
					inText = true
				}
			case "sectPr":
				inSectPr = true
				sectHeader = ""
				sectFirst = ""
			case "headerReference":
				if inSectPr {
					id := attr(t, "id")
					if sectFirst == "" {
						sectFirst = id
					}
					if attr(t, "type") == "default" {
						sectHeader = id
					}
				}
			}

		case xml.CharData:
			if inText && run != nil {
				run.Text += string(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				if para != nil && run != nil {
					para.Runs = append(para.Runs, *run)
				}
				run = nil
			case "p":
				pDepth--
				if pDepth == 0 && para != nil {
					paragraphs = append(paragraphs, *para)
					para = nil
				}
			case "sectPr":
				inSectPr = false
				if sectHeader == "" {
					sectHeader = sectFirst
				}
				headerRefs = append(headerRefs, sectHeader)
			}
		}
	}

	if !sawBody {
		return nil, nil, fmt.Errorf("document has no body element")
	}
	return paragraphs, headerRefs, nil
}

// parseHeaderPart extracts the paragraphs of one header part.
func parseHeaderPart(f *zip.File) ([]Paragraph, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)

	var (
		paragraphs []Paragraph
		para       *Paragraph
		run        *Run
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para = &Paragraph{}
			case "pStyle":
				if para != nil {
					para.StyleID = attr(t, "val")
				}
			case "r":
				if para != nil {
					run = &Run{}
				}
			case "t":
				if run != nil {
					inText = true
				}
			}
		case xml.CharData:
			if inText && run != nil {
				run.Text += string(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				if para != nil && run != nil {
					para.Runs = append(para.Runs, *run)
				}
				run = nil
			case "p":
				if para != nil {
					paragraphs = append(paragraphs, *para)
					para = nil
				}
			}
		}
	}
	return paragraphs, nil
}

// attr returns the value of the named attribute regardless of namespace.
func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

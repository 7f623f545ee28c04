package docx2pdf

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/avelar/go-docx2pdf/internal/docx"
)

// baseCodeRe matches a multi-segment code token: alphanumeric segments
// joined by at least two hyphens, e.g. "062725-0620-b04-25".
var baseCodeRe = regexp.MustCompile(`[A-Za-z0-9]+(?:-[A-Za-z0-9]+){2,}`)

// defaultBaseCode is the last-resort identifier when neither the filename
// nor the document yields anything usable.
const defaultBaseCode = "DOCUMENT"

// ExtractBaseCode resolves the document identifier stamped into every page
// header. Precedence: filename pattern match, section header text, body
// text, filename stem, fixed fallback. Matches are kept verbatim — the code
// threads through to user-visible output naming, so case is never folded.
//
// The doc may be nil (parse failure); extraction never fails the job.
func ExtractBaseCode(doc *docx.Document, filename string) string {
	if code := baseCodeRe.FindString(filename); code != "" {
		return code
	}

	if doc != nil {
		for _, sec := range doc.Sections {
			for _, p := range sec.Header {
				if code := baseCodeRe.FindString(p.Text()); code != "" {
					return code
				}
			}
		}
		for _, p := range doc.Paragraphs {
			if code := baseCodeRe.FindString(p.Text()); code != "" {
				return code
			}
		}
	}

	if stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)); stem != "" && stem != "." {
		return stem
	}
	return defaultBaseCode
}

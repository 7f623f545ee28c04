package docx2pdf

import "github.com/avelar/go-docx2pdf/internal/docx"

// Bucket is one contiguous run of paragraphs assigned to one logical page.
type Bucket []docx.Paragraph

// Partition groups the document's paragraphs into ordered buckets, splitting
// before every heading paragraph except one at the very start. Concatenating
// the buckets in order reproduces the original paragraph sequence exactly.
//
// A document with no headings yields one bucket holding everything; a
// document with no paragraphs yields zero buckets and callers must
// substitute a single placeholder bucket to avoid a zero-page output.
func Partition(doc *docx.Document) []Bucket {
	if doc == nil {
		return nil
	}

	var buckets []Bucket
	var current Bucket

	for _, p := range doc.Paragraphs {
		if docx.IsHeading(p.StyleID) && len(current) > 0 {
			buckets = append(buckets, current)
			current = nil
		}
		current = append(current, p)
	}
	if len(current) > 0 {
		buckets = append(buckets, current)
	}
	return buckets
}

// Package docx2pdf converts Word documents to paginated PDFs with rewritten
// running headers.
//
// # Quick Start
//
// Create a converter, convert a file, and close when done:
//
//	conv := docx2pdf.New()
//	defer conv.Close()
//
//	err := conv.ConvertFile(ctx, "report.docx", "report.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Structure extraction — the document's base code is resolved from the
//     filename, the section headers, or the body text.
//  2. Section rewrite — running headers are cleared or stamped with
//     "{base}_Part{n}" and every run's font is forced to one family/size.
//  3. Rendering — a chain of backends (hosted API, headless LibreOffice,
//     headless Chrome, pure-Go layout) produces the paginated PDF, falling
//     through on failure.
//  4. Header overlay — each rendered page gets an opaque band stamped over
//     the header area with the corrected "{base}_Part{n}" text.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := docx2pdf.New(
//	    docx2pdf.WithTimeout(2 * time.Minute),
//	    docx2pdf.WithHeaderMode(docx2pdf.HeaderModeSuppress),
//	    docx2pdf.WithFont("Times New Roman", 10),
//	    docx2pdf.WithHostedAPI("https://convert.example.com/v1", apiKey),
//	)
//
// # Parallel Processing
//
// For concurrent jobs (e.g. behind an HTTP boundary), use ConverterPool to
// bound the number of live browser/office processes:
//
//	pool := docx2pdf.NewConverterPool(4)
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//	err := conv.ConvertFile(ctx, in, out)
package docx2pdf

// Package docx2html converts Word (.docx) documents into HTML regrouped
// around their bold text.
//
// # Quick Start
//
// Create a converter, convert an upload, and close when done:
//
//	conv, err := docx2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	data, _ := os.ReadFile("notlar.docx")
//	result, err := conv.Convert(ctx, docx2html.Input{
//	    Name: "notlar.docx",
//	    Data: data,
//	})
//	if err != nil {
//	    log.Fatal(docx2html.UserMessage(err))
//	}
//	fmt.Println(result.HTML)
//
// The result carries both the converter output (result.RawHTML) and the
// regrouped document (result.HTML). A document without any bold text
// converts successfully to an empty HTML string.
//
// # Conversion Pipeline
//
//  1. File name check (.docx only, case-sensitive)
//  2. Document to HTML conversion via go-docx and a style map
//  3. Re-segmentation: every fragment starts at a bold span and runs to the
//     next <strong> opener, wrapped in its own <p>
//
// Content before the first bold span is dropped, and so is any document
// without bold text. See Resegment for the exact rules.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := docx2html.NewConverter(
//	    docx2html.WithTimeout(time.Minute),
//	    docx2html.WithStyleRules([]string{
//	        "p[style-name='Normal'] => p:fresh",
//	        "b => strong",
//	    }),
//	)
//
// # PDF Export
//
// ToPDF renders a standalone page (see the export package) with headless
// Chrome via go-rod. The browser is launched on first use; ROD_BROWSER_BIN
// selects a specific binary and ROD_NO_SANDBOX or CI disables the sandbox.
// For concurrent rendering use ConverterPool:
//
//	pool := docx2html.NewConverterPool(docx2html.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	pdf, err := conv.ToPDF(ctx, page, &docx2html.PDFOptions{PageSize: "a4"})
package docx2html

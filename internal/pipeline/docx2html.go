package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// ErrDocumentParse indicates the document bytes could not be decoded.
var ErrDocumentParse = errors.New("document could not be parsed")

// DocumentConverter turns word-processor bytes into an HTML fragment.
type DocumentConverter interface {
	ToHTML(ctx context.Context, data []byte, styles StyleMap) (string, error)
}

// DocxConverter converts .docx packages using go-docx.
//
// Paragraph text, bold, italic, tabs and line breaks are rendered. Table
// cells flatten into their paragraphs and hyperlinks keep their text only.
// Images and drawings are skipped.
type DocxConverter struct{}

// NewDocxConverter creates a DocxConverter.
func NewDocxConverter() *DocxConverter {
	return &DocxConverter{}
}

// ToHTML decodes data and renders its body as an HTML fragment with no
// surrounding document and no newlines between blocks. A zip without a
// document body fails with ErrDocumentParse.
// Supports context cancellation via goroutine + select since go-docx
// does not take a context.
func (c *DocxConverter) ToHTML(ctx context.Context, data []byte, styles StyleMap) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		pkg, err := preparePackage(data)
		if err != nil {
			done <- result{err: err}
			return
		}
		doc, err := docx.Parse(bytes.NewReader(pkg), int64(len(pkg)))
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrDocumentParse, err)}
			return
		}
		done <- result{html: renderBlocks(extractBlocks(doc), styles)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// block is a paragraph reduced to what the renderer needs.
type block struct {
	Style string
	Runs  []run
}

// run is a formatted piece of paragraph content.
type run struct {
	Text   string
	Bold   bool
	Italic bool
	Break  bool
}

// extractBlocks walks the document body in order. Tables contribute the
// paragraphs of their cells, row by row.
func extractBlocks(doc *docx.Docx) []block {
	var blocks []block
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			blocks = append(blocks, paragraphBlock(it))
		case *docx.Table:
			blocks = appendTableBlocks(blocks, it)
		}
	}
	return blocks
}

func appendTableBlocks(blocks []block, t *docx.Table) []block {
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			for _, p := range cell.Paragraphs {
				blocks = append(blocks, paragraphBlock(p))
			}
			for _, nested := range cell.Tables {
				blocks = appendTableBlocks(blocks, nested)
			}
		}
	}
	return blocks
}

func paragraphBlock(p *docx.Paragraph) block {
	var b block
	if p.Properties != nil && p.Properties.Style != nil {
		b.Style = p.Properties.Style.Val
	}
	for _, child := range p.Children {
		switch c := child.(type) {
		case *docx.Run:
			b.Runs = append(b.Runs, extractRuns(c)...)
		case *docx.Hyperlink:
			b.Runs = append(b.Runs, extractRuns(&c.Run)...)
		}
	}
	return b
}

func extractRuns(r *docx.Run) []run {
	var bold, italic bool
	if r.RunProperties != nil {
		bold = r.RunProperties.Bold != nil
		italic = r.RunProperties.Italic != nil
	}

	var runs []run
	for _, child := range r.Children {
		switch c := child.(type) {
		case *docx.Text:
			runs = append(runs, run{Text: c.Text, Bold: bold, Italic: italic})
		case *docx.Tab:
			runs = append(runs, run{Text: "\t", Bold: bold, Italic: italic})
		case *docx.BarterRabbet:
			runs = append(runs, run{Break: true})
		}
	}
	return runs
}

// textEscaper escapes the characters significant in element content only.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// renderBlocks writes each non-empty block as its mapped element.
// Consecutive blocks mapped to the same non-fresh tag share one element.
func renderBlocks(blocks []block, styles StyleMap) string {
	var out strings.Builder
	var openTag string

	closeOpen := func() {
		if openTag != "" {
			out.WriteString("</" + openTag + ">")
			openTag = ""
		}
	}

	for _, b := range blocks {
		content := renderRuns(b.Runs, styles)
		if strings.TrimSpace(content) == "" {
			continue
		}

		target := styles.ParagraphTarget(b.Style)
		if !target.Fresh && openTag == target.Tag {
			out.WriteString(content)
			continue
		}

		closeOpen()
		out.WriteString("<" + target.Tag + ">")
		out.WriteString(content)
		if target.Fresh {
			out.WriteString("</" + target.Tag + ">")
		} else {
			openTag = target.Tag
		}
	}
	closeOpen()
	return out.String()
}

// renderRuns wraps runs in their bold/italic elements. Adjacent runs with
// the same formatting merge unless the mapping is fresh.
func renderRuns(runs []run, styles StyleMap) string {
	var out strings.Builder
	var prev *run

	for i := range runs {
		r := &runs[i]
		if r.Break {
			closeRun(&out, prev, styles)
			out.WriteString("<br />")
			prev = nil
			continue
		}
		if r.Text == "" {
			continue
		}

		merge := prev != nil && prev.Bold == r.Bold && prev.Italic == r.Italic &&
			(!r.Bold || !styles.Bold.Fresh) && (!r.Italic || !styles.Italic.Fresh)
		if !merge {
			closeRun(&out, prev, styles)
			openRun(&out, r, styles)
		}
		out.WriteString(textEscaper.Replace(r.Text))
		prev = r
	}
	closeRun(&out, prev, styles)
	return out.String()
}

func openRun(out *strings.Builder, r *run, styles StyleMap) {
	if r.Bold {
		out.WriteString("<" + styles.Bold.Tag + ">")
	}
	if r.Italic {
		out.WriteString("<" + styles.Italic.Tag + ">")
	}
}

func closeRun(out *strings.Builder, r *run, styles StyleMap) {
	if r == nil {
		return
	}
	if r.Italic {
		out.WriteString("</" + styles.Italic.Tag + ">")
	}
	if r.Bold {
		out.WriteString("</" + styles.Bold.Tag + ">")
	}
}

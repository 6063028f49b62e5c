package docx2html_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/alnah/go-docx2html"
)

// Example converts a small document built in memory.
func Example() {
	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText("Başlık").Bold()
	doc.AddParagraph().AddText("Gövde metni")

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		fmt.Println("error:", err)
		return
	}

	conv, err := docx2html.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), docx2html.Input{
		Name: "notlar.docx",
		Data: buf.Bytes(),
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(result.Paragraphs)
	fmt.Println(strings.HasPrefix(result.HTML, "<p><strong>Başlık</strong>"))
	// Output:
	// 1
	// true
}

// ExampleResegment shows fragments anchored on bold spans.
func ExampleResegment() {
	fmt.Println(docx2html.Resegment("<strong>A</strong>text<strong>B</strong>more"))
	fmt.Println(docx2html.Resegment("<p>no bold here</p>") == "")
	// Output:
	// <p><strong>A</strong>text</p><p><strong>B</strong>more</p>
	// true
}

// ExampleCheckFilename shows the case-sensitive extension check.
func ExampleCheckFilename() {
	fmt.Println(docx2html.CheckFilename("rapor.docx") == nil)
	fmt.Println(errors.Is(docx2html.CheckFilename("rapor.DOCX"), docx2html.ErrInvalidFileType))
	// Output:
	// true
	// true
}

// ExampleUserMessage shows the messages displayed for failures.
func ExampleUserMessage() {
	fmt.Println(docx2html.UserMessage(docx2html.CheckFilename("notlar.pdf")))
	// Output: Lütfen sadece .docx dosyası yükleyin
}

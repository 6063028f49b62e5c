package pipeline

import (
	"context"
	"html"
	"strings"
)

// ExportStylesheet is the fixed stylesheet of exported standalone documents.
const ExportStylesheet = "body { font-family: Arial, sans-serif; } p { margin: 1rem 0; } strong { font-weight: bold; }"

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style block.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the content cannot end the <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// DocumentShell wraps a body fragment in a minimal standalone HTML page.
type DocumentShell struct {
	Title    string
	CSS      string
	Injector CSSInjector // nil uses CSSInjection
}

// Wrap returns a UTF-8 document whose body is body, untouched.
// The title is escaped; the stylesheet goes into the head.
func (d DocumentShell) Wrap(ctx context.Context, body string) string {
	var b strings.Builder
	b.Grow(len(body) + len(d.CSS) + 128)
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(d.Title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")

	injector := d.Injector
	if injector == nil {
		injector = &CSSInjection{}
	}
	return injector.InjectCSS(ctx, b.String(), d.CSS)
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ErrMarkdownConversion indicates an HTML fragment could not be rendered
// as Markdown.
var ErrMarkdownConversion = errors.New("markdown conversion failed")

// ToMarkdown renders an HTML fragment as CommonMark text.
func ToMarkdown(ctx context.Context, fragment string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownConversion, err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

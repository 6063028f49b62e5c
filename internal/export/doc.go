// Package export delivers the displayed document to the outside world.
//
// Clipboard writes try rich HTML first, then the plain text content, and
// report a status string instead of failing. File exports wrap the document
// in a standalone HTML page or render it as Markdown.
package export

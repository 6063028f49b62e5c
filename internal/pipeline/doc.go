// Package pipeline implements the DOCX-to-HTML conversion pipeline.
//
// This package handles the conversion and post-processing stages:
//   - DOCX to HTML conversion via go-docx, driven by a style map
//   - Re-segmentation of the converted HTML into bold-anchored paragraphs
//   - Standalone document wrapping with CSS injection
//   - Plain-text and Markdown renditions used by the exporters
//
// PDF generation is handled separately by the root docx2html package using
// headless Chrome (go-rod). Clipboard and file output live in
// internal/export.
package pipeline

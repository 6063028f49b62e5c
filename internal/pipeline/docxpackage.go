package pipeline

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// mainPart is the package entry holding the document body.
const mainPart = "word/document.xml"

// MaxMainPartSize caps the decompressed document body (256MB).
var MaxMainPartSize int64 = 256 << 20

// ErrMissingMainPart indicates a zip that is not a word-processing package,
// such as a renamed .xlsx.
var ErrMissingMainPart = errors.New("missing " + mainPart)

// offToggle matches bold and italic run properties switched off with
// w:val="0", "false" or "off", self-closing or not. go-docx keeps only the
// presence of w:b and w:i, so these are removed before parsing.
var offToggle = regexp.MustCompile(
	`<w:[bi](?:\s[^>]*?)?\sw:val\s*=\s*["'](?:0|false|off)["'][^>]*?(?:/>|>\s*</w:[bi]>)`,
)

// preparePackage checks that data is a word-processing package and removes
// switched-off bold and italic toggles from its main part. data is returned
// unchanged when there is nothing to remove.
func preparePackage(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}

	var main *zip.File
	for _, f := range zr.File {
		if f.Name == mainPart {
			main = f
			break
		}
	}
	if main == nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentParse, ErrMissingMainPart)
	}

	body, err := readPart(main)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}

	cleaned := offToggle.ReplaceAll(body, nil)
	if len(cleaned) == len(body) {
		return data, nil
	}
	return repack(zr, cleaned)
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(io.LimitReader(rc, MaxMainPartSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > MaxMainPartSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", mainPart, MaxMainPartSize)
	}
	return body, nil
}

// repack copies every entry of zr into a new package, replacing the main
// part with body.
func repack(zr *zip.Reader, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range zr.File {
		if f.Name != mainPart {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: mainPart, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
		}
		if _, err := w.Write(body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}
	return buf.Bytes(), nil
}

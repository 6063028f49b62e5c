package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/session"
)

// Content types of the downloads.
const (
	mimeHTML     = "text/html; charset=utf-8"
	mimeMarkdown = "text/markdown; charset=utf-8"
	mimePDF      = "application/pdf"
)

// uploadField is the multipart field carrying the document.
const uploadField = "file"

func (s *Server) index(c echo.Context) error {
	return c.Render(http.StatusOK, "index", pageData{
		Title:         PageTitle,
		Version:       s.cfg.Version,
		UploadLabel:   UploadLabel,
		Accept:        docx2html.DocxExtension,
		CopyLabel:     session.IdleLabel,
		DownloadLabel: DownloadLabel,
		LoadingText:   LoadingText,
		ContentLabel:  ContentLabel,
		StatusMillis:  statusDuration(s.cfg).Milliseconds(),
		PDFEnabled:    s.deps.PDF != nil,
	})
}

// document returns the current session snapshot.
func (s *Server) document(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

// upload converts the posted document and replaces the displayed one.
//
// A wrong extension is rejected before any conversion and leaves the
// displayed document alone. A failed conversion keeps the previous document
// too. Both answer with the snapshot so the page can show the message.
func (s *Server) upload(c echo.Context) error {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("missing %q file field", uploadField)).SetInternal(err)
	}

	if err := docx2html.CheckFilename(fh.Filename); err != nil {
		s.deps.Store.Reject(docx2html.UserMessage(err))
		s.deps.Metrics.ObserveConversion(OutcomeRejected, 0, 0)
		return c.JSON(http.StatusUnsupportedMediaType, s.deps.Store.Snapshot())
	}

	s.deps.Store.BeginUpload()
	start := time.Now()

	data, err := readUpload(fh)
	if err != nil {
		s.deps.Store.Fail(docx2html.MsgConversionPrefix + err.Error())
		s.deps.Metrics.ObserveConversion(OutcomeFailed, time.Since(start), 0)
		return c.JSON(http.StatusBadRequest, s.deps.Store.Snapshot())
	}

	// Uploads are never canceled: a client going away still lets the
	// conversion finish, and the last one to complete wins.
	ctx := context.WithoutCancel(c.Request().Context())
	result, err := s.deps.Converter.Convert(ctx, docx2html.Input{Name: fh.Filename, Data: data})
	if err != nil {
		s.deps.Logger.Printf("converting %q: %v", fh.Filename, err)
		s.deps.Store.Fail(docx2html.UserMessage(err))
		s.deps.Metrics.ObserveConversion(OutcomeFailed, time.Since(start), 0)
		return c.JSON(http.StatusUnprocessableEntity, s.deps.Store.Snapshot())
	}

	s.deps.Store.Complete(result.HTML)
	outcome := OutcomeOK
	if result.Empty() {
		outcome = OutcomeNoEmphasis
	}
	s.deps.Metrics.ObserveConversion(outcome, time.Since(start), result.Paragraphs)
	return c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

// uploadErrors records upload failures raised before a conversion starts,
// such as the body limit or a missing file field, as a session error and
// answers with the snapshot. The displayed document is kept.
func (s *Server) uploadErrors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		var he *echo.HTTPError
		if err == nil || !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			return err
		}

		msg := docx2html.MsgNoFile
		if he.Code == http.StatusRequestEntityTooLarge {
			msg = docx2html.MsgFileTooLarge
		}
		req := c.Request()
		s.deps.Logger.Printf("%d %s %s from %s: %v", he.Code, req.Method, req.URL.Path, c.RealIP(), err)
		s.deps.Store.Reject(msg)
		s.deps.Metrics.ObserveConversion(OutcomeRejected, 0, 0)
		return c.JSON(he.Code, s.deps.Store.Snapshot())
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// copy places the displayed document on the clipboard and shows the
// resulting status. Clipboard failures are a status, never an HTTP error.
func (s *Server) copy(c echo.Context) error {
	doc, ok := s.deps.Store.Document()
	if !ok {
		return echo.NewHTTPError(http.StatusConflict, "no document to copy")
	}

	res := s.deps.Clipboard.Copy(c.Request().Context(), doc)
	if res.Err != nil {
		s.deps.Logger.Printf("clipboard (%s): %v", res.Mode, res.Err)
	}
	s.deps.Store.ShowStatus(res.Status)
	s.deps.Metrics.ObserveCopy(res.Mode.String())
	return c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

func (s *Server) downloadHTML(c echo.Context) error {
	doc, err := s.currentDocument()
	if err != nil {
		return err
	}
	page := s.deps.Exporter.HTML(c.Request().Context(), doc)
	s.deps.Metrics.ObserveExport("html")
	return attachment(c, s.deps.Exporter.HTMLFilename(), mimeHTML, page)
}

func (s *Server) downloadMarkdown(c echo.Context) error {
	doc, err := s.currentDocument()
	if err != nil {
		return err
	}
	md, err := s.deps.Exporter.Markdown(c.Request().Context(), doc)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	s.deps.Metrics.ObserveExport("markdown")
	return attachment(c, s.deps.Exporter.SiblingFilename("md"), mimeMarkdown, md)
}

func (s *Server) downloadPDF(c echo.Context) error {
	doc, err := s.currentDocument()
	if err != nil {
		return err
	}
	page := s.deps.Exporter.HTML(c.Request().Context(), doc)
	pdf, err := s.deps.PDF.RenderPDF(c.Request().Context(), page)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, docx2html.ErrBrowserConnect) {
			code = http.StatusServiceUnavailable
		}
		return echo.NewHTTPError(code, err.Error()).SetInternal(err)
	}
	s.deps.Metrics.ObserveExport("pdf")
	return attachment(c, s.deps.Exporter.SiblingFilename("pdf"), mimePDF, pdf)
}

func (s *Server) currentDocument() (string, error) {
	doc, ok := s.deps.Store.Document()
	if !ok {
		return "", echo.NewHTTPError(http.StatusNotFound, "no document to export")
	}
	return doc, nil
}

// attachment sends data as a named download.
func attachment(c echo.Context, filename, contentType string, data []byte) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Blob(http.StatusOK, contentType, data)
}

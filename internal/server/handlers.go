package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/workready/internal/llm"
	"github.com/jonathan/workready/internal/parsing"
	"github.com/jonathan/workready/internal/pipeline"
	"github.com/jonathan/workready/internal/rendering"
	"github.com/jonathan/workready/internal/schemas"
)

const (
	// maxMultipartMemory is kept in memory; larger parts spill to temp files
	maxMultipartMemory = 32 << 20
	// multipartOverhead allows for form fields and boundaries around the file
	multipartOverhead = 1 << 20
	// maxReplyBytes bounds the body of /curriculo/estruturar
	maxReplyBytes = 1 << 20
)

// uploadFields names the multipart fields of a generation endpoint
type uploadFields struct {
	File           string
	JobDescription string
	JobURL         string
	OutputName     string
}

var (
	// personalizeFields are the form names of /curriculo/personalizar
	personalizeFields = uploadFields{
		File:           "arquivo",
		JobDescription: "vaga",
		JobURL:         "vaga_url",
		OutputName:     "nome_arquivo_saida",
	}
	// cvvFields are the form names the web client posts to /cvv/create-cvv
	cvvFields = uploadFields{
		File:           "pdf_file",
		JobDescription: "description",
		JobURL:         "job_url",
	}
)

// handleGenerate runs the personalization pipeline on a multipart upload and
// streams back the PDF
func (s *Server) handleGenerate(fields uploadFields) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.readUpload(w, r, fields)
		if err != nil {
			s.failure(w, r, err)
			return
		}

		result, err := s.pipeline.Run(r.Context(), *req)
		if err != nil {
			s.failure(w, r, err)
			return
		}

		log.Printf("[%s] Generated %s (%d pages, %d bytes)", req.ID, result.Filename, result.Pages, len(result.PDF))
		if result.Violations != nil {
			w.Header().Set("X-Document-Issues", strconv.Itoa(len(result.Violations.Violations)))
		}
		s.pdfResponse(w, result.Filename, result.Pages, result.PDF)
	}
}

// readUpload parses the multipart form into a pipeline request
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, fields uploadFields) (*pipeline.Request, error) {
	limit := s.maxUploadBytes + multipartOverhead
	tooLarge := &pipeline.InputError{Field: fields.File, Message: fmt.Sprintf("file exceeds the %d MB limit", s.maxUploadBytes>>20)}
	if r.ContentLength > limit {
		return nil, tooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge.Cause = err
			return nil, tooLarge
		}
		return nil, &pipeline.InputError{Message: "expected a multipart/form-data body", Cause: err}
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Printf("[%s] failed to remove multipart temp files: %v", requestID(r.Context()), err)
		}
	}()

	file, header, err := r.FormFile(fields.File)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, &pipeline.InputError{Field: fields.File, Message: "a PDF file is required"}
		}
		return nil, &pipeline.InputError{Field: fields.File, Message: "unreadable upload", Cause: err}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &pipeline.InputError{Field: fields.File, Message: "unreadable upload", Cause: err}
	}

	req := &pipeline.Request{
		ID:             requestID(r.Context()),
		File:           data,
		FileName:       header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		JobDescription: r.FormValue(fields.JobDescription),
		JobURL:         r.FormValue(fields.JobURL),
	}
	if fields.OutputName != "" {
		req.OutputName = r.FormValue(fields.OutputName)
	}
	return req, nil
}

// handleStructure parses a raw model reply into a document. The JSON form is
// the default; ?formato=pdf renders it instead.
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReplyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.failure(w, r, &pipeline.InputError{Field: "body", Message: "reply is too large", Cause: err})
			return
		}
		s.failure(w, r, &pipeline.InputError{Field: "body", Message: "unreadable body", Cause: err})
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		s.failure(w, r, &pipeline.InputError{Field: "body", Message: "reply text is required"})
		return
	}

	doc := parsing.Parse(llm.CleanReply(string(body)))
	if err := schemas.ValidateDocument(doc); err != nil {
		s.failure(w, r, err)
		return
	}

	if r.URL.Query().Get("formato") != "pdf" {
		s.jsonResponse(w, http.StatusOK, doc)
		return
	}

	renderer := s.pipeline.Renderer
	if renderer == nil {
		renderer = rendering.NewRenderer(rendering.DefaultOptions())
	}
	result, err := renderer.Render(doc)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.pdfResponse(w, pipeline.SanitizeFilename(doc.Name), result.Pages, result.PDF)
}

// pdfResponse writes a PDF attachment
func (s *Server) pdfResponse(w http.ResponseWriter, filename string, pages int, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("X-Page-Count", strconv.Itoa(pages))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("Error writing PDF response: %v", err)
	}
}

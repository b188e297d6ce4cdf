package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/workready/internal/ingestion"
	"github.com/jonathan/workready/internal/types"
)

// DefaultMaxUploadBytes is the upload limit when none is configured
const DefaultMaxUploadBytes int64 = 10 << 20

// acceptedContentTypes are the upload types taken as PDF without an extension check
var acceptedContentTypes = map[string]bool{
	"application/pdf":          true,
	"application/x-pdf":        true,
	"application/octet-stream": true,
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateRequest rejects uploads that must never reach extraction or the model:
// missing fields, empty or oversized files, and files that are not PDFs.
func ValidateRequest(req *types.UploadRequest, data []byte, maxBytes int64) error {
	if req == nil {
		return &InputError{Message: "request is required"}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	if err := requestValidator().Struct(req); err != nil {
		return toInputError(err)
	}
	if req.Size > maxBytes {
		return &InputError{Field: "file", Message: fmt.Sprintf("file exceeds the %s limit", sizeLabel(maxBytes))}
	}
	if !isPDFName(req.FileName, req.ContentType) {
		return &InputError{Field: "file", Message: "the file must be a PDF"}
	}
	if !ingestion.IsPDF(data) {
		return &InputError{Field: "file", Message: "file content is not a PDF"}
	}
	return nil
}

func sizeLabel(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

func isPDFName(name, contentType string) bool {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".pdf") {
		return true
	}
	mediaType, _, _ := strings.Cut(strings.ToLower(contentType), ";")
	return acceptedContentTypes[strings.TrimSpace(mediaType)]
}

// toInputError reports the first failing field
func toInputError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &InputError{Message: "invalid request", Cause: err}
	}

	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required", "min":
		msg = "is required"
	case "required_without":
		msg = "a job description or job URL is required"
	case "gt":
		msg = "file is empty"
	case "url":
		msg = "must be a valid URL"
	default:
		msg = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &InputError{Field: fieldName(fe.StructField()), Message: msg, Cause: err}
}

// fieldName maps struct fields to the names clients know them by
func fieldName(field string) string {
	switch field {
	case "FileName", "Size":
		return "file"
	case "JobDescription":
		return "job_description"
	case "JobURL":
		return "job_url"
	default:
		return strings.ToLower(field)
	}
}

package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/workready/internal/fetch"
	"github.com/jonathan/workready/internal/ingestion"
	"github.com/jonathan/workready/internal/llm"
	"github.com/jonathan/workready/internal/pipeline"
	"github.com/jonathan/workready/internal/rendering"
	"github.com/jonathan/workready/internal/schemas"
)

// genericErrorMessage is returned for failures whose detail must not leak
const genericErrorMessage = "internal server error"

// HTTPStatus returns the appropriate HTTP status code for an error.
// Input problems are 400, processing failures are 422, anything else is 500.
func HTTPStatus(err error) int {
	var (
		inputErr      *pipeline.InputError
		extractionErr *ingestion.ExtractionError
		modelErr      *llm.ModelError
		renderErr     *rendering.RenderError
		fetchErr      *fetch.Error
		schemaErr     *schemas.ValidationError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &extractionErr),
		errors.As(err, &modelErr),
		errors.As(err, &renderErr),
		errors.As(err, &fetchErr),
		errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text shown to the client for err
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return genericErrorMessage
	}
	return err.Error()
}

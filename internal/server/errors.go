package server

import (
	"errors"
	"net/http"

	"github.com/joppa/joppa/internal/campaign"
	"github.com/joppa/joppa/internal/llm"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *campaign.ErrJobNotFound
	var notAllowed *campaign.ErrNotAllowed
	var parseErr *llm.ParseError
	var schemaErr *campaign.SchemaError
	var genErr *llm.GenerationError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &notAllowed):
		return http.StatusForbidden
	case errors.As(err, &parseErr), errors.As(err, &schemaErr), errors.As(err, &genErr):
		// Generation and parse failures surface as plain server errors;
		// the failed run record carries the detail.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

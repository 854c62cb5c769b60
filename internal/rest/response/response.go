// Package response renders error bodies for the REST layer.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todotrek/internal/apperr"
)

const (
	GeneralErrorKey = "general"

	InvalidRequestStructure = "INVALID_REQUEST_STRUCTURE"
	MissedValue             = "MISSED_VALUE"
	InvalidValue            = "INVALID_VALUE"
	ReadOnlyValue           = "READ_ONLY_VALUE"
)

// ErrorMessage describes one invalid field.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Body is the JSON shape of every error response.
type Body struct {
	Code    apperr.Kind             `json:"code"`
	Message string                  `json:"message"`
	Errors  map[string]ErrorMessage `json:"errors,omitempty"`
}

type Error interface {
	error
	Status() int
	Body() Body
}

// ValidationError collects per-field problems found while parsing a form.
type ValidationError struct {
	errors map[string]ErrorMessage
}

func NewValidationError(errs ...map[string]ErrorMessage) *ValidationError {
	ve := &ValidationError{errors: make(map[string]ErrorMessage)}
	for _, m := range errs {
		for k, v := range m {
			ve.errors[k] = v
		}
	}
	return ve
}

func (e *ValidationError) SetError(key, code, message string) {
	e.errors[key] = ErrorMessage{Code: code, Message: message}
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Status() int { return http.StatusBadRequest }

func (e *ValidationError) Body() Body {
	return Body{Code: apperr.KindInvalidArgument, Message: e.Error(), Errors: e.errors}
}

type kindError struct {
	kind    apperr.Kind
	message string
}

func (e *kindError) Error() string { return e.message }

func (e *kindError) Status() int { return apperr.HTTPStatus(e.kind) }

func (e *kindError) Body() Body { return Body{Code: e.kind, Message: e.message} }

func NewInternalError() Error {
	return &kindError{kind: apperr.KindInternal, message: "internal error"}
}

func NewUnauthorizedError() Error {
	return &kindError{kind: apperr.KindUnauthenticated, message: "Unauthenticated"}
}

// ResolveError converts a service error into a response. Messages of
// unclassified errors are never exposed.
func ResolveError(err error) Error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		if apperr.KindOf(err) == apperr.KindUnavailable {
			return &kindError{kind: apperr.KindUnavailable, message: "service unavailable"}
		}
		return NewInternalError()
	}
	if ae.Kind == apperr.KindInternal {
		return NewInternalError()
	}
	return &kindError{kind: ae.Kind, message: ae.Message}
}

func HandleError(err Error, c *gin.Context) {
	c.AbortWithStatusJSON(err.Status(), err.Body())
}

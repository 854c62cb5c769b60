// Package forms parses and validates request bodies. Each subpackage holds
// the forms of one resource.
package forms

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"todotrek/internal/rest/response"
)

type Former interface {
	ParseAndValidate(c *gin.Context) (Former, response.Error)
}

// DecodeJSON reads the request body into request. An empty body decodes to
// the zero value.
func DecodeJSON(c *gin.Context, request any) response.Error {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return response.NewInternalError()
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, request); err != nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")
		return ve
	}
	return nil
}

// Missed records a required field that was not supplied.
func Missed(errors map[string]response.ErrorMessage, field string) {
	errors[field] = response.ErrorMessage{Code: response.MissedValue, Message: "missed value"}
}

// Invalid records a field whose value cannot be used.
func Invalid(errors map[string]response.ErrorMessage, field, message string) {
	errors[field] = response.ErrorMessage{Code: response.InvalidValue, Message: message}
}

// Result turns collected field errors into a response error, or nil.
func Result(errors map[string]response.ErrorMessage) response.Error {
	if len(errors) == 0 {
		return nil
	}
	return response.NewValidationError(errors)
}

package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"todotrek/internal/apperr"
)

func TestResolveError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    apperr.Kind
		message string
	}{
		{"not found", apperr.New(apperr.KindNotFound, "Task not found"), http.StatusNotFound, apperr.KindNotFound, "Task not found"},
		{"wrapped forbidden", fmt.Errorf("update: %w", apperr.New(apperr.KindForbidden, "nope")), http.StatusForbidden, apperr.KindForbidden, "nope"},
		{"conflict", apperr.New(apperr.KindConflict, "completed task cannot be updated"), http.StatusConflict, apperr.KindConflict, "completed task cannot be updated"},
		{"plain error is masked", errors.New("disk on fire"), http.StatusInternalServerError, apperr.KindInternal, "internal error"},
		{"internal kind is masked", apperr.Wrap(apperr.KindInternal, "sql: syntax", errors.New("x")), http.StatusInternalServerError, apperr.KindInternal, "internal error"},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, apperr.KindUnavailable, "service unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveError(tt.err)
			body := got.Body()
			if got.Status() != tt.status || body.Code != tt.code || body.Message != tt.message {
				t.Fatalf("got %d %+v", got.Status(), body)
			}
		})
	}
}

func TestHandleValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ve := NewValidationError(map[string]ErrorMessage{"name": {Code: MissedValue, Message: "missed value"}})
	ve.SetError(GeneralErrorKey, InvalidRequestStructure, "invalid request structure")
	HandleError(ve, c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var body Body
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != apperr.KindInvalidArgument || len(body.Errors) != 2 || body.Errors["name"].Code != MissedValue {
		t.Fatalf("body = %+v", body)
	}
	if !c.IsAborted() {
		t.Fatal("context not aborted")
	}
}

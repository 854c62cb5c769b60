package tasks

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"todotrek/internal/rest/forms"
	"todotrek/internal/rest/response"
)

const dateLayout = "2006-01-02"

type CreateTaskRequest struct {
	Body     string `json:"body"`
	DueDate  string `json:"dueDate"`
	Priority *int   `json:"priority"`
}

type CreateTaskForm struct {
	Body     string
	DueDate  *time.Time
	Priority *int
}

func NewCreateTaskForm() *CreateTaskForm {
	return &CreateTaskForm{}
}

func (f *CreateTaskForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request CreateTaskRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	if f.Body = strings.TrimSpace(request.Body); f.Body == "" {
		forms.Missed(errors, "body")
	}
	if request.DueDate != "" {
		due, ok := ParseDueDate(request.DueDate)
		if !ok {
			forms.Invalid(errors, "dueDate", "dueDate must be RFC 3339 or YYYY-MM-DD")
		}
		f.DueDate = due
	}
	validatePriority(errors, request.Priority)
	f.Priority = request.Priority
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

type UpdateTaskRequest struct {
	Body       *string         `json:"body"`
	DueDate    json.RawMessage `json:"dueDate"`
	Priority   *int            `json:"priority"`
	ProjectID  *string         `json:"projectId"`
	CategoryID *string         `json:"categoryId"`
}

// UpdateTaskForm is a partial update. A null dueDate clears the date.
// Empty projectId and categoryId together detach the task.
type UpdateTaskForm struct {
	Body         *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *int
	ProjectID    *string
	CategoryID   *string
}

func NewUpdateTaskForm() *UpdateTaskForm {
	return &UpdateTaskForm{}
}

func (f *UpdateTaskForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request UpdateTaskRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	if request.Body != nil && strings.TrimSpace(*request.Body) == "" {
		forms.Invalid(errors, "body", "body cannot be empty")
	}
	f.validateAndSetDueDate(request.DueDate, errors)
	validatePriority(errors, request.Priority)
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	f.Body, f.Priority = request.Body, request.Priority
	f.ProjectID, f.CategoryID = request.ProjectID, request.CategoryID
	return f, nil
}

func (f *UpdateTaskForm) validateAndSetDueDate(raw json.RawMessage, errors map[string]response.ErrorMessage) {
	if len(raw) == 0 {
		return
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		f.ClearDueDate = true
		return
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		forms.Invalid(errors, "dueDate", "dueDate must be a string or null")
		return
	}
	due, ok := ParseDueDate(value)
	if !ok {
		forms.Invalid(errors, "dueDate", "dueDate must be RFC 3339 or YYYY-MM-DD")
		return
	}
	f.DueDate = due
}

type ChangeCompletionRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

type ChangeCompletionForm struct {
	IsCompleted bool
}

func NewChangeCompletionForm() *ChangeCompletionForm {
	return &ChangeCompletionForm{}
}

func (f *ChangeCompletionForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request ChangeCompletionRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	if request.IsCompleted == nil {
		forms.Missed(errors, "isCompleted")
	} else {
		f.IsCompleted = *request.IsCompleted
	}
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

// ParseDueDate accepts an RFC 3339 timestamp or a bare date.
func ParseDueDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

func validatePriority(errors map[string]response.ErrorMessage, priority *int) {
	if priority != nil && (*priority < 0 || *priority > 3) {
		forms.Invalid(errors, "priority", "priority must be between 0 and 3")
	}
}

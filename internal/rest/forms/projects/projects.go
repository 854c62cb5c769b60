package projects

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"todotrek/internal/rest/forms"
	"todotrek/internal/rest/response"
)

type CreateProjectRequest struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	Favourites bool   `json:"favourites"`
}

type CreateProjectForm struct {
	Name       string
	Color      string
	Favourites bool
}

func NewCreateProjectForm() *CreateProjectForm {
	return &CreateProjectForm{}
}

func (f *CreateProjectForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request CreateProjectRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	f.validateAndSetName(request.Name, errors)
	f.Color = strings.TrimSpace(request.Color)
	f.Favourites = request.Favourites
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

func (f *CreateProjectForm) validateAndSetName(name string, errors map[string]response.ErrorMessage) {
	name = strings.TrimSpace(name)
	if name == "" {
		forms.Missed(errors, "name")
		return
	}
	f.Name = name
}

type UpdateProjectRequest struct {
	Name       *string         `json:"name"`
	Color      *string         `json:"color"`
	Favourites *bool           `json:"favourites"`
	Categories json.RawMessage `json:"categories"`
	Tasks      json.RawMessage `json:"tasks"`
}

// UpdateProjectForm holds the attributes a PATCH may change. The child
// lists are maintained by the server and rejected here.
type UpdateProjectForm struct {
	Name       *string
	Color      *string
	Favourites *bool
}

func NewUpdateProjectForm() *UpdateProjectForm {
	return &UpdateProjectForm{}
}

func (f *UpdateProjectForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request UpdateProjectRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	if request.Name != nil && strings.TrimSpace(*request.Name) == "" {
		forms.Invalid(errors, "name", "name cannot be empty")
	}
	if len(request.Categories) > 0 {
		errors["categories"] = response.ErrorMessage{Code: response.ReadOnlyValue, Message: "categories are managed by the server"}
	}
	if len(request.Tasks) > 0 {
		errors["tasks"] = response.ErrorMessage{Code: response.ReadOnlyValue, Message: "tasks are managed by the server"}
	}
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	f.Name, f.Color, f.Favourites = request.Name, request.Color, request.Favourites
	return f, nil
}

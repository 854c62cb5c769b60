package categories

import (
	"strings"

	"github.com/gin-gonic/gin"

	"todotrek/internal/rest/forms"
	"todotrek/internal/rest/response"
)

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateCategoryForm struct {
	Name string
}

func NewCreateCategoryForm() *CreateCategoryForm {
	return &CreateCategoryForm{}
}

func (f *CreateCategoryForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request CreateCategoryRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	if f.Name = strings.TrimSpace(request.Name); f.Name == "" {
		forms.Missed(errors, "name")
	}
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

type UpdateCategoryRequest struct {
	Name    *string `json:"name"`
	Project *string `json:"project"`
}

type UpdateCategoryForm struct {
	Name    *string
	Project *string
}

func NewUpdateCategoryForm() *UpdateCategoryForm {
	return &UpdateCategoryForm{}
}

func (f *UpdateCategoryForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request UpdateCategoryRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	if request.Name != nil && strings.TrimSpace(*request.Name) == "" {
		forms.Invalid(errors, "name", "name cannot be empty")
	}
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	f.Name, f.Project = request.Name, request.Project
	return f, nil
}

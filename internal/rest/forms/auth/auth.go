package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"todotrek/internal/rest/forms"
	"todotrek/internal/rest/response"
)

type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type SignUpForm struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func NewSignUpForm() *SignUpForm {
	return &SignUpForm{}
}

func (f *SignUpForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request SignUpRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	f.Email = requireString(errors, "email", request.Email)
	f.Password = requireString(errors, "password", request.Password)
	f.FirstName = strings.TrimSpace(request.FirstName)
	f.LastName = strings.TrimSpace(request.LastName)
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInForm struct {
	Email    string
	Password string
}

func NewSignInForm() *SignInForm {
	return &SignInForm{}
}

func (f *SignInForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request SignInRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	f.Email = requireString(errors, "email", request.Email)
	f.Password = requireString(errors, "password", request.Password)
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

type EmailRequest struct {
	Email string `json:"email"`
}

// EmailForm carries the address for resend and reset requests.
type EmailForm struct {
	Email string
}

func NewEmailForm() *EmailForm {
	return &EmailForm{}
}

func (f *EmailForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request EmailRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	f.Email = requireString(errors, "email", request.Email)
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPasswordForm takes the new password from the body and the token from
// the t or token query parameter.
type ResetPasswordForm struct {
	Token    string
	Password string
}

func NewResetPasswordForm() *ResetPasswordForm {
	return &ResetPasswordForm{}
}

func (f *ResetPasswordForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request ResetPasswordRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	f.Password = requireString(errors, "password", request.Password)
	f.Token = requireString(errors, "token", QueryToken(c))
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

type GoogleRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	GoogleID  string `json:"googleId"`
}

type GoogleForm struct {
	FirstName string
	LastName  string
	Email     string
	GoogleID  string
}

func NewGoogleForm() *GoogleForm {
	return &GoogleForm{}
}

func (f *GoogleForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request GoogleRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	f.Email = requireString(errors, "email", request.Email)
	f.GoogleID = requireString(errors, "googleId", request.GoogleID)
	f.FirstName = strings.TrimSpace(request.FirstName)
	f.LastName = strings.TrimSpace(request.LastName)
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

type TelegramRequest struct {
	ChatID int64 `json:"chatId"`
}

type TelegramForm struct {
	ChatID int64
}

func NewTelegramForm() *TelegramForm {
	return &TelegramForm{}
}

func (f *TelegramForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	var request TelegramRequest
	if verr := forms.DecodeJSON(c, &request); verr != nil {
		return nil, verr
	}
	errors := make(map[string]response.ErrorMessage)
	if request.ChatID == 0 {
		forms.Missed(errors, "chatId")
	}
	f.ChatID = request.ChatID
	if verr := forms.Result(errors); verr != nil {
		return nil, verr
	}
	return f, nil
}

// QueryToken returns the token query parameter; the frontend links use t.
func QueryToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return c.Query("t")
}

func requireString(errors map[string]response.ErrorMessage, field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		forms.Missed(errors, field)
	}
	return value
}
